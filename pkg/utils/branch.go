package utils

import "strings"

// BranchSuffix is appended to every requester branch.
const BranchSuffix = "-saas-offer-terraform"

// BranchName derives the git branch used for a requester.
// Example: "John Peter" -> "john-peter-saas-offer-terraform".
//
// Names that differ only in case, spacing or punctuation map to the same
// branch.
func BranchName(fullName string) string {
	return strings.TrimPrefix(BranchStem(fullName)+BranchSuffix, "-")
}

// BranchStem is the name part of BranchName: lowercase a-z, 0-9 and single
// hyphens. It is empty when the name has no ASCII letter or digit.
func BranchStem(fullName string) string {
	name := strings.Join(strings.Fields(strings.ToLower(fullName)), "-")

	var b strings.Builder
	b.Grow(len(name))
	lastHyphen := false
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		case r == '-':
			if !lastHyphen {
				b.WriteRune(r)
			}
			lastHyphen = true
		}
	}

	return strings.Trim(b.String(), "-")
}
