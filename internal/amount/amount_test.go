package amount

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToMajor(t *testing.T) {
	c := NewConverter(8)

	tests := []struct {
		minor string
		major string
	}{
		{"0", "0"},
		{"1", "0.00000001"},
		{"150000000", "1.5"},
		{"100000000", "1"},
		{"12345678900000000", "123456789"},
		{"9007199254740993", "90071992.54740993"}, // above float64 integer range
	}

	for _, item := range tests {
		major, err := c.ToMajor(item.minor)
		assert.NoError(t, err, "ToMajor(%q)", item.minor)
		assert.Equal(t, item.major, major, "ToMajor(%q)", item.minor)
	}
}

func TestToMinor(t *testing.T) {
	c := NewConverter(8)

	tests := []struct {
		major string
		minor string
	}{
		{"0", "0"},
		{"1.5", "150000000"},
		{"0.00000001", "1"},
		{"123456789", "12345678900000000"},
		{"90071992.54740993", "9007199254740993"},
	}

	for _, item := range tests {
		minor, err := c.ToMinor(item.major)
		assert.NoError(t, err, "ToMinor(%q)", item.major)
		assert.Equal(t, item.minor, minor, "ToMinor(%q)", item.major)
	}
}

func TestRoundTrip(t *testing.T) {
	c := NewConverter(8)

	for _, minor := range []string{
		"0", "1", "7", "99", "150000000",
		"123456789012345678901234567890", // beyond uint64
	} {
		major, err := c.ToMajor(minor)
		assert.NoError(t, err)

		back, err := c.ToMinor(major)
		assert.NoError(t, err)
		assert.Equal(t, minor, back, "round trip of %q via %q", minor, major)
	}
}

func TestRejections(t *testing.T) {
	c := NewConverter(8)

	_, err := c.ToMajor("-1")
	assert.Error(t, err, "negative minor")

	_, err = c.ToMajor("1.5")
	assert.Error(t, err, "fractional minor")

	_, err = c.ToMajor("bogus")
	assert.Error(t, err, "non-numeric minor")

	_, err = c.ToMinor("-0.5")
	assert.Error(t, err, "negative major")

	_, err = c.ToMinor("0.000000001")
	assert.Error(t, err, "sub-minor precision must be rejected, not truncated")

	_, err = c.ToMinor("")
	assert.Error(t, err, "empty major")
}
