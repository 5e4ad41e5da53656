package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestNoLineBreaks(t *testing.T) {
	assert.Equal(t, "ab", NoLineBreaks("a\r\nb"))
	assert.Equal(t, "ab", NoLineBreaks("a\nb"))
	assert.Equal(t, "plain", NoLineBreaks("plain"))
}

func TestUserInputStringBuildsLogField(t *testing.T) {
	f := UserInputString("title", "line\none")
	assert.Equal(t, "title", f.Key)
	assert.Equal(t, zapcore.StringType, f.Type)
	assert.Equal(t, "lineone", f.String)
}

func TestTokenPreviewTruncates(t *testing.T) {
	f := TokenPreview("token", "AAAAAAAAAAAAAAAAAAAAA")
	assert.Equal(t, "token", f.Key)
	assert.Equal(t, "AAAA…", f.String)
}

func TestTokenPreviewKeepsShortValues(t *testing.T) {
	f := TokenPreview("token", "abc")
	assert.Equal(t, "abc", f.String)
}
