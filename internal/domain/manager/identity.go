package manager

import "strings"

const (
	// Unknown is used when a payload carries no manager block for a team.
	Unknown = "Unknown"

	// RedactedPlaceholder is what the provider shows instead of a nickname
	// when a manager hides their profile.
	RedactedPlaceholder = "-- hidden --"

	redactedPlaceholderCompact = "--hidden--"
)

// Identity normalizes raw display names to canonical manager keys.
type Identity struct {
	aliases map[string]string
}

// NewIdentity builds an identity that rewrites the redacted placeholder to
// redactedAlias plus any extra raw->canonical aliases. Chained aliases are
// followed to their final name so Normalize is idempotent. Members of an
// alias cycle all resolve to the lexically smallest name in the cycle.
func NewIdentity(redactedAlias string, aliases map[string]string) Identity {
	direct := make(map[string]string, len(aliases)+2)
	for raw, canonical := range aliases {
		raw = strings.TrimSpace(raw)
		canonical = strings.TrimSpace(canonical)
		if raw == "" || canonical == "" || raw == canonical {
			continue
		}
		direct[raw] = canonical
	}

	redactedAlias = strings.TrimSpace(redactedAlias)
	if redactedAlias != "" {
		for _, placeholder := range []string{RedactedPlaceholder, redactedPlaceholderCompact} {
			if placeholder != redactedAlias {
				direct[placeholder] = redactedAlias
			}
		}
	}

	out := make(map[string]string, len(direct))
	for raw := range direct {
		if final := resolveAlias(direct, raw); final != raw {
			out[raw] = final
		}
	}
	return Identity{aliases: out}
}

// resolveAlias walks raw through direct until it reaches a name with no
// further alias or revisits one.
func resolveAlias(direct map[string]string, raw string) string {
	seen := map[string]struct{}{raw: {}}
	current := raw
	for {
		next, ok := direct[current]
		if !ok {
			return current
		}
		if _, loop := seen[next]; loop {
			return smallestInCycle(direct, next)
		}
		seen[next] = struct{}{}
		current = next
	}
}

func smallestInCycle(direct map[string]string, start string) string {
	smallest := start
	for name := direct[start]; name != start; name = direct[name] {
		if name < smallest {
			smallest = name
		}
	}
	return smallest
}

// Normalize returns the canonical key for a raw name. Blank names resolve
// to Unknown.
func (i Identity) Normalize(raw string) string {
	name := strings.TrimSpace(raw)
	if name == "" {
		return Unknown
	}
	if canonical, ok := i.aliases[name]; ok {
		return canonical
	}
	return name
}

// Canonical reports the canonical name the redacted placeholder maps to.
func (i Identity) Canonical() string {
	if alias, ok := i.aliases[RedactedPlaceholder]; ok {
		return alias
	}
	return RedactedPlaceholder
}
