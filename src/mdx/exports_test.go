package mdx

import (
	"strings"
	"testing"
)

func TestRemoveStaticExports_ArrowConst(t *testing.T) {
	content := `export const getStaticPaths = async () => {
  return getCustomStaticPath(meta.platforms);
};

Other content
`

	got := RemoveStaticExports(content)
	if strings.Contains(got, "getStaticPaths") {
		t.Errorf("export block survived: %q", got)
	}
	if !strings.Contains(got, "Other content") {
		t.Errorf("prose lost: %q", got)
	}
}

func TestRemoveStaticExports_FunctionForm(t *testing.T) {
	content := `export function getStaticProps(context) {
  return {
    props: { meta }
  };
}

Body
`

	got := RemoveStaticExports(content)
	if strings.Contains(got, "getStaticProps") {
		t.Errorf("function export survived: %q", got)
	}
	if !strings.Contains(got, "Body") {
		t.Errorf("prose lost: %q", got)
	}
}

func TestRemoveStaticExports_NestedBraces(t *testing.T) {
	content := "export const getStaticProps = async () => {\n" +
		"  const data = { a: { b: { c: 1 } } };\n" +
		"  return { props: data };\n" +
		"};\n" +
		"After\n"

	got := RemoveStaticExports(content)
	if strings.Contains(got, "props") {
		t.Errorf("nested braces ended block early: %q", got)
	}
	if !strings.Contains(got, "After") {
		t.Errorf("prose lost: %q", got)
	}
}

func TestRemoveStaticExports_BraceInString(t *testing.T) {
	content := "export const getStaticPaths = async () => {\n" +
		"  const tpl = \"closing } inside a string\";\n" +
		"  return tpl;\n" +
		"};\n" +
		"Kept\n"

	got := RemoveStaticExports(content)
	if strings.Contains(got, "inside a string") {
		t.Errorf("string brace ended block early: %q", got)
	}
	if !strings.Contains(got, "Kept") {
		t.Errorf("prose lost: %q", got)
	}
}

func TestRemoveStaticExports_OtherExportsKept(t *testing.T) {
	content := "export const meta = {\n  title: 'Page'\n};\nBody\n"
	got := RemoveStaticExports(content)
	if !strings.Contains(got, "export const meta") {
		t.Errorf("unrelated export removed: %q", got)
	}
}

func TestRemoveStaticExports_Unterminated(t *testing.T) {
	content := "export const getStaticPaths = async () => {\n  // never closed\nBody\n"
	got := RemoveStaticExports(content)
	if !strings.Contains(got, "never closed") {
		t.Errorf("unterminated block should stay as written: %q", got)
	}
}
