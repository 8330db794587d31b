package content

import (
	"github.com/inful/mdfp"

	"git.home.luguber.info/inful/snippetbuilder/internal/frontmatter"
)

// fingerprint computes the mdfp content fingerprint over the canonical YAML
// of the attributes and the body. Reserved timestamp keys are not part of
// attributes, so the fingerprint is stable across metadata sources.
func fingerprint(attributes map[string]any, body string) (string, error) {
	fields := make(map[string]any, len(attributes))
	for k, v := range attributes {
		if k == mdfp.FingerprintField {
			continue
		}
		fields[k] = v
	}

	header, err := frontmatter.Canonical(fields)
	if err != nil {
		return "", err
	}
	return mdfp.CalculateFingerprintFromParts(header, body), nil
}
