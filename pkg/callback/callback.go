// Package callback packs structured command data into the compact string
// carried by an interactive control, and unpacks it when the control fires.
//
// Wire format: "<prefix>|k1=v1;k2=v2". Keys are sorted so two equal maps
// always produce the same string. Keys and values are percent-escaped
// independently, so the reserved separators and non-ASCII text are safe
// inside either. The whole string must stay within MaxCallbackData bytes,
// the control-payload limit of the chat transport.
package callback

import (
	"net/url"
	"sort"
	"strings"
)

// MaxCallbackData is the transport's byte budget for one encoded command.
const MaxCallbackData = 64

const (
	prefixSep = "|"
	pairSep   = ";"
	kvSep     = "="
)

// Encode serializes an optional prefix and a payload map into one string.
// A bare prefix is emitted without the delimiter, which makes it
// indistinguishable on Decode from a prefix-less payload equal to the same
// literal; callers must not reuse a prefix as a standalone payload shape.
func Encode(prefix string, payload map[string]string) string {
	var parts []string
	if prefix != "" {
		parts = append(parts, prefix)
	}
	if len(payload) > 0 {
		keys := make([]string, 0, len(payload))
		for k := range payload {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		pairs := make([]string, 0, len(keys))
		for _, k := range keys {
			pairs = append(pairs, url.QueryEscape(k)+kvSep+url.QueryEscape(payload[k]))
		}
		parts = append(parts, strings.Join(pairs, pairSep))
	}
	return strings.Join(parts, prefixSep)
}

// Decode splits an encoded command back into prefix and payload. Only the
// first prefix delimiter separates prefix from payload; without one the
// whole string is payload. Segments that are empty, lack a key/value
// separator, or fail to unescape are dropped rather than failing the whole
// command: the transport may truncate a command to fit its size budget, and
// recovering the intact pairs beats rejecting the interaction.
func Decode(s string) (string, map[string]string) {
	var prefix, rest string
	if i := strings.Index(s, prefixSep); i >= 0 {
		prefix, rest = s[:i], s[i+1:]
	} else {
		rest = s
	}

	payload := make(map[string]string)
	if rest == "" {
		return prefix, payload
	}
	for _, pair := range strings.Split(rest, pairSep) {
		if pair == "" {
			continue
		}
		k, v, ok := strings.Cut(pair, kvSep)
		if !ok {
			continue
		}
		key, err := url.QueryUnescape(k)
		if err != nil {
			continue
		}
		value, err := url.QueryUnescape(v)
		if err != nil {
			continue
		}
		payload[key] = value
	}
	return prefix, payload
}

// Fits reports whether an encoded command is within the transport budget.
func Fits(s string) bool {
	return len(s) <= MaxCallbackData
}
