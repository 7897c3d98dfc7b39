package importer

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

var ErrInvalidLanguage = errors.New("invalid language hint")

// NormalizeLanguage reduces a locale code to its base language ("pt-BR"
// becomes "pt"), which is what the backend translator accepts. An empty hint
// means no translation.
func NormalizeLanguage(hint string) (string, error) {
	hint = strings.TrimSpace(hint)
	if hint == "" {
		return "", nil
	}

	tag, err := language.Parse(strings.ReplaceAll(hint, "_", "-"))
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidLanguage, hint)
	}

	base, conf := tag.Base()
	if conf == language.No {
		return "", fmt.Errorf("%w: %q", ErrInvalidLanguage, hint)
	}
	return base.String(), nil
}
