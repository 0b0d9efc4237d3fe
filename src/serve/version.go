package serve

// Version is the build version, set via ldflags:
//
//	go build -ldflags "-X github.com/mattstanbrell/amped/src/serve.Version=v1.2.3"
var Version = "dev"
