package cryptox

import "encoding/base64"

// ObscureText encodes a credential for transit. This is obfuscation for
// logs and browser devtools, not encryption; TLS carries the real
// confidentiality guarantee.
func ObscureText(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

// RevealText decodes a transit-obscured credential. Inputs that are not
// valid base64 are returned unchanged so older clients that send plain
// text keep working.
func RevealText(s string) string {
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return s
	}
	return string(raw)
}
