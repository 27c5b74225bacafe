package callback

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		prefix  string
		payload map[string]string
	}{
		{
			name:    "simple pair",
			prefix:  "rate",
			payload: map[string]string{"a": "set", "q": "overall_impression", "v": "7"},
		},
		{
			name:    "no prefix",
			prefix:  "",
			payload: map[string]string{"page": "2"},
		},
		{
			name:    "reserved separators inside values",
			prefix:  "nav",
			payload: map[string]string{"k": "a=b;c|d", "x": ";;||=="},
		},
		{
			name:    "reserved separators inside keys",
			prefix:  "p",
			payload: map[string]string{"a=b": "1", "c;d": "2", "e|f": "3"},
		},
		{
			name:    "non-ascii text",
			prefix:  "rate",
			payload: map[string]string{"q": "впечатление", "v": "10"},
		},
		{
			name:    "empty value",
			prefix:  "rate",
			payload: map[string]string{"a": ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded := Encode(tt.prefix, tt.payload)
			prefix, payload := Decode(encoded)
			assert.Equal(t, tt.prefix, prefix)
			assert.Equal(t, tt.payload, payload)
		})
	}
}

func TestEncode_DeterministicKeyOrder(t *testing.T) {
	a := map[string]string{"z": "26", "a": "1", "m": "13"}
	b := map[string]string{"m": "13", "z": "26", "a": "1"}

	assert.Equal(t, Encode("p", a), Encode("p", b))
	assert.Equal(t, "p|a=1;m=13;z=26", Encode("p", a))
}

func TestEncode_BarePrefix(t *testing.T) {
	assert.Equal(t, "rate", Encode("rate", nil))
	assert.Equal(t, "rate", Encode("rate", map[string]string{}))
}

func TestDecode_DropsMalformedSegments(t *testing.T) {
	prefix, payload := Decode("p|good=1;bad;also=2")

	assert.Equal(t, "p", prefix)
	assert.Equal(t, map[string]string{"good": "1", "also": "2"}, payload)
}

func TestDecode_EmptySegmentsAndRepeatedDelimiters(t *testing.T) {
	prefix, payload := Decode("p|;;a=1;;")

	assert.Equal(t, "p", prefix)
	assert.Equal(t, map[string]string{"a": "1"}, payload)
}

func TestDecode_NoPrefix(t *testing.T) {
	prefix, payload := Decode("a=1;b=2")

	assert.Equal(t, "", prefix)
	assert.Equal(t, map[string]string{"a": "1", "b": "2"}, payload)
}

func TestDecode_ValueContainsKVSeparator(t *testing.T) {
	// Only the first "=" splits the pair; the rest belongs to the value.
	_, payload := Decode("k=a=b=c")

	assert.Equal(t, map[string]string{"k": "a=b=c"}, payload)
}

func TestDecode_TruncatedCommand(t *testing.T) {
	full := Encode("rate", map[string]string{"a": "set", "q": "overall_impression", "v": "7"})
	truncated := full[:len(full)-9]

	prefix, payload := Decode(truncated)
	assert.Equal(t, "rate", prefix)
	assert.Equal(t, "set", payload["a"])
	// The cut-off pair is dropped, not fatal.
	assert.NotContains(t, payload, "v")
}

func TestFits(t *testing.T) {
	assert.True(t, Fits(Encode("rate", map[string]string{"a": "set", "q": "recommend_to_colleagues", "v": "10"})))
	assert.False(t, Fits(string(make([]byte, MaxCallbackData+1))))
}
