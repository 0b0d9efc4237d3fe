package mdx

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var schemaImport = regexp.MustCompile(`import\s+(\w+)\s+from\s+['"]([^'"]+\.json)['"]`)

// EmbedSchema replaces JSX-embedded JSON schemas with fenced json
// blocks. Schema imports are resolved relative to the document and the
// file content is re-indented. An unreadable schema file removes the
// reference without emitting a block.
func EmbedSchema(content, docPath string) string {
	for _, m := range schemaImport.FindAllStringSubmatch(content, -1) {
		varName, schemaPath := m[1], m[2]

		usage := regexp.MustCompile(
			`<pre><code[^>]*>\s*{JSON\.stringify\(` + regexp.QuoteMeta(varName) + `[^}]+}\s*</code></pre>`)
		importLine := regexp.MustCompile(
			`import\s+` + regexp.QuoteMeta(varName) + `\s+from\s+['"]` + regexp.QuoteMeta(schemaPath) + `['"];?\s*\n?`)

		block, err := schemaBlock(filepath.Join(filepath.Dir(docPath), schemaPath))
		if err != nil {
			content = usage.ReplaceAllString(content, "")
			content = importLine.ReplaceAllString(content, "")
			continue
		}

		content = usage.ReplaceAllString(content, block)
		content = importLine.ReplaceAllString(content, "")
	}
	return content
}

func schemaBlock(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	var parsed any
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("parsing schema %s: %w", path, err)
	}
	formatted, err := json.MarshalIndent(parsed, "", "  ")
	if err != nil {
		return "", err
	}

	return "```json\n" + string(formatted) + "\n```", nil
}

const (
	gen1Warning = "> [!WARNING]\n" +
		"> The content on this page applies to applications created with the Amplify CLI.\n" +
		"> Fields marked as redacted contain values managed by the service and must not be\n" +
		"> edited by hand; changing them can break your backend deployment."

	gen2Warning = "> [!WARNING]\n" +
		"> The content on this page applies to applications built with the code-first\n" +
		"> developer experience. Fields marked as redacted contain values managed by the\n" +
		"> service and must not be edited by hand; changing them can break your backend\n" +
		"> deployment."
)

var (
	redactionImport = regexp.MustCompile(
		`(?m)^import\s*{\s*ProtectedRedactionGen[12]Message\s*}\s*from\s*['"]@/protected/ProtectedRedactionMessage['"].*?\n`)
	redactionGen1 = regexp.MustCompile(`<ProtectedRedactionGen1Message\s*/>\s*\n?`)
	redactionGen2 = regexp.MustCompile(`<ProtectedRedactionGen2Message\s*/>\s*\n?`)
)

// EmbedRedactionMessages replaces the protected-redaction JSX
// components with their standing markdown warnings and drops the
// import that carried them.
func EmbedRedactionMessages(content string) string {
	if !redactionGen1.MatchString(content) && !redactionGen2.MatchString(content) {
		return content
	}

	content = redactionImport.ReplaceAllString(content, "")
	content = redactionGen1.ReplaceAllString(content, "\n\n"+gen1Warning+"\n\n")
	content = redactionGen2.ReplaceAllString(content, "\n\n"+gen2Warning+"\n\n")
	return collapseBlankLines(content)
}

var (
	tableBlock   = regexp.MustCompile(`(?s)<Table[^>]*>.*?</Table>`)
	tableCaption = regexp.MustCompile(`caption="([^"]*)"`)
	tableHead    = regexp.MustCompile(`(?s)<TableHead>.*?<TableRow>(.*?)</TableRow>.*?</TableHead>`)
	tableBody    = regexp.MustCompile(`(?s)<TableBody>(.*?)</TableBody>`)
	tableRow     = regexp.MustCompile(`(?s)<TableRow[^>]*>(.*?)</TableRow>`)
	tableCell    = regexp.MustCompile(`(?s)<TableCell[^>]*>(.*?)</TableCell>`)
	htmlLink     = regexp.MustCompile(`(?s)<a href="([^"]+)"[^>]*>(.*?)</a>`)
	htmlStrong   = regexp.MustCompile(`(?s)<strong>(.*?)</strong>`)
	htmlTag      = regexp.MustCompile(`<[^>]+>`)
)

// ConvertTables rewrites @aws-amplify/ui-react Table components as
// GitHub markdown tables. Tables without a recognizable head or body
// are left as written.
func ConvertTables(content string) string {
	return tableBlock.ReplaceAllStringFunc(content, convertTable)
}

func convertTable(table string) string {
	head := tableHead.FindStringSubmatch(table)
	if head == nil {
		return table
	}
	body := tableBody.FindStringSubmatch(table)
	if body == nil {
		return table
	}

	var headerCells []string
	for _, cell := range tableCell.FindAllStringSubmatch(head[1], -1) {
		headerCells = append(headerCells, strings.TrimSpace(cell[1]))
	}

	var rows []string
	if caption := tableCaption.FindStringSubmatch(table); caption != nil {
		rows = append(rows, "\n"+caption[1]+"\n")
	}
	rows = append(rows, "| "+strings.Join(headerCells, " | ")+" |")
	rows = append(rows, "|"+strings.Repeat("---|", len(headerCells)))

	for _, row := range tableRow.FindAllStringSubmatch(body[1], -1) {
		var cells []string
		for _, cell := range tableCell.FindAllStringSubmatch(row[1], -1) {
			cells = append(cells, cleanCell(cell[1]))
		}
		rows = append(rows, "| "+strings.Join(cells, " | ")+" |")
	}

	return strings.Join(rows, "\n")
}

func cleanCell(cell string) string {
	cell = htmlLink.ReplaceAllString(cell, "[$2]($1)")
	cell = htmlStrong.ReplaceAllString(cell, "**$1**")
	cell = htmlTag.ReplaceAllString(cell, "")
	return strings.TrimSpace(cell)
}

var (
	aiConversation = regexp.MustCompile(`(?s)<AIConversation[^>]*>.*?</AIConversation>`)
	cardImport     = regexp.MustCompile(`(?m)^import\s*{\s*Card\s*}\s*from\s*['"]@aws-amplify/ui-react['"];\s*\n?`)
	columnsBlock   = regexp.MustCompile(`(?s)<Columns\s+columns=\{\d+\}>\s*(.*?)\s*</Columns>`)
	cardBlock      = regexp.MustCompile(`(?s)<Card\s+variation="outlined">\s*(.*?)\s*</Card>`)
	cardLink       = regexp.MustCompile(`(?s)\[(.*?)\]\((.*?)\)(.*)`)
	cardFeature    = regexp.MustCompile(`(?s)<Flex[^>]*>\s*<Heading[^>]*>(.*?)</Heading>\s*<Text>(.*?)</Text>\s*</Flex>`)
	cardText       = regexp.MustCompile(`(?s)<Text>(.*?)</Text>`)
)

// ConvertCards rewrites Card link grids as markdown blockquotes. Cards
// inside AIConversation components are sample UI code and stay as
// written.
func ConvertCards(content string) string {
	var b strings.Builder
	pos := 0

	for _, loc := range aiConversation.FindAllStringIndex(content, -1) {
		b.WriteString(convertCardRegion(content[pos:loc[0]]))
		b.WriteString(content[loc[0]:loc[1]])
		pos = loc[1]
	}
	b.WriteString(convertCardRegion(content[pos:]))

	return b.String()
}

func convertCardRegion(text string) string {
	text = cardImport.ReplaceAllString(text, "")

	// Unwrap column layouts, converting the cards inside.
	text = columnsBlock.ReplaceAllStringFunc(text, func(m string) string {
		inner := columnsBlock.FindStringSubmatch(m)[1]
		return cardBlock.ReplaceAllStringFunc(inner, convertCard)
	})

	return cardBlock.ReplaceAllStringFunc(text, convertCard)
}

func convertCard(m string) string {
	body := strings.TrimSpace(cardBlock.FindStringSubmatch(m)[1])

	if link := cardLink.FindStringSubmatch(body); link != nil {
		title := strings.TrimSpace(link[1])
		target := strings.TrimSpace(link[2])
		desc := strings.TrimSpace(link[3])
		return fmt.Sprintf("> [%s](%s)\n>\n> %s", title, target, desc)
	}

	if feature := cardFeature.FindStringSubmatch(body); feature != nil {
		return fmt.Sprintf("> ### %s\n>\n> %s",
			strings.TrimSpace(feature[1]), strings.TrimSpace(feature[2]))
	}

	if txt := cardText.FindStringSubmatch(body); txt != nil {
		return "> " + strings.TrimSpace(txt[1])
	}

	return "> " + body
}

var overviewComponent = regexp.MustCompile(`(?i)<Overview\s+childPageNodes\s*=\s*{[^}]+}\s*/>\s*\n?`)

// RemoveOverview drops <Overview childPageNodes={...} /> components.
// The converted tree has no generated child-page index to render.
func RemoveOverview(content string) string {
	return overviewComponent.ReplaceAllString(content, "")
}
