package mdx

import "regexp"

// Media is one image or video referenced by a page.
type Media struct {
	Kind string // "image" or "video"
	Path string
	Alt  string
}

var (
	markdownImage  = regexp.MustCompile(`!\[([^\]]*)\]\(([^)]+)\)`)
	videoComponent = regexp.MustCompile(`<Video\s+src="([^"]+)"[^>]*/>`)
)

// MediaPaths collects the media files a page references: markdown
// images and <Video src=... /> components. Paths are reported as
// written, not rewritten or resolved.
func MediaPaths(content string) []Media {
	var media []Media

	for _, m := range markdownImage.FindAllStringSubmatch(content, -1) {
		media = append(media, Media{Kind: "image", Path: m[2], Alt: m[1]})
	}
	for _, m := range videoComponent.FindAllStringSubmatch(content, -1) {
		media = append(media, Media{Kind: "video", Path: m[1]})
	}

	return media
}
