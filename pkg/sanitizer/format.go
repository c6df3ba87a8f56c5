package sanitizer

import (
	"path"
	"strings"
	"unicode/utf8"
)

// NormalizeEmail trims and lowercases an address. The local part is kept
// otherwise intact so the stored value matches what the user typed.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

const maxFilenameLength = 255

// SecureFilename strips directories and characters that are unsafe in
// storage keys. An unusable name becomes "file" with the original extension.
func SecureFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(name)

	name = strings.Map(func(r rune) rune {
		switch {
		case r < 0x20 || r == 0x7f:
			return -1
		case strings.ContainsRune(`/\:*?"<>|`, r), r == ' ':
			return '_'
		}
		return r
	}, name)
	name = strings.Trim(name, "._")

	ext := path.Ext(name)
	if strings.TrimSuffix(name, ext) == "" {
		name = "file" + ext
	}

	if len(name) > maxFilenameLength {
		base := strings.TrimSuffix(name, ext)
		if len(ext) >= maxFilenameLength {
			// No room for the base: cut the name as a whole.
			base, ext = name, ""
		}
		keep := maxFilenameLength - len(ext)
		for keep > 0 && !utf8.RuneStart(base[keep]) {
			keep--
		}
		name = base[:keep] + ext
	}
	return name
}
