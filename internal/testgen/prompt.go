package testgen

import (
	"bytes"
	"strings"
)

const summarizeInstruction = "Enumerate the test cases worth writing for the files above. " +
	"For each, give a short title and a one-or-two sentence description of what the test verifies."

const generateInstruction = "Write the full test code for the test case below, covering the files above. " +
	"Use the testing conventions the files themselves suggest. Reply with code only."

// SummarizePrompt lists every file (path then full content, in input order)
// followed by the summarize instruction.
func SummarizePrompt(files []FileRecord) string {
	var buf bytes.Buffer
	writeFiles(&buf, files)
	writeSection(&buf, "TASK", summarizeInstruction)
	return strings.TrimSpace(buf.String()) + "\n"
}

// GeneratePrompt lists every file followed by the generate instruction and
// the selected summary, embedded verbatim.
func GeneratePrompt(files []FileRecord, pick TestSummary) string {
	var buf bytes.Buffer
	writeFiles(&buf, files)
	writeSection(&buf, "TASK", generateInstruction)
	writeSection(&buf, "TEST_CASE", pick.Title+"\n"+pick.Description)
	return strings.TrimSpace(buf.String()) + "\n"
}

func writeFiles(buf *bytes.Buffer, files []FileRecord) {
	for _, f := range files {
		writeSection(buf, "FILE "+f.Path, f.Content)
	}
}

func writeSection(buf *bytes.Buffer, title, body string) {
	buf.WriteString("[")
	buf.WriteString(title)
	buf.WriteString("]\n")
	buf.WriteString(body)
	if !strings.HasSuffix(body, "\n") {
		buf.WriteString("\n")
	}
	buf.WriteString("\n")
}
