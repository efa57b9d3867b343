// Package knowledge loads the static text injected into every prompt. Both
// files are read once at startup; a missing file degrades rather than failing
// the process.
package knowledge

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Base holds the knowledge and style text for prompt construction. It is
// immutable after Load and safe for concurrent reads.
type Base struct {
	Knowledge string
	Style     string
}

// Load reads the knowledge and style files. An unreadable knowledge file
// yields empty knowledge; an unreadable style file yields an empty style so
// the prompt builder applies its default instruction. Both cases log a
// warning and neither fails startup.
func Load(knowledgePath, stylePath string) Base {
	return Base{
		Knowledge: readOrEmpty(knowledgePath, "knowledge"),
		Style:     readOrEmpty(stylePath, "style"),
	}
}

func readOrEmpty(path, kind string) string {
	if path == "" {
		return ""
	}
	data, err := os.ReadFile(path)
	if err != nil {
		logrus.WithError(err).WithField("path", path).Warnf("%s file unreadable, continuing without it", kind)
		return ""
	}
	return strings.TrimSpace(string(data))
}
