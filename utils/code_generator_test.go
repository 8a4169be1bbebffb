// file: utils/code_generator_test.go
package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateInvitationCode(t *testing.T) {
	code := GenerateInvitationCode(8)
	assert.Len(t, code, 8)
	for _, ch := range code {
		assert.Contains(t, charset, string(ch))
	}
}

func TestGenerateDynamicFlag(t *testing.T) {
	flag := GenerateDynamicFlag()
	assert.True(t, strings.HasPrefix(flag, "astra{"))
	assert.True(t, strings.HasSuffix(flag, "}"))

	inner := strings.TrimSuffix(strings.TrimPrefix(flag, "astra{"), "}")
	parts := strings.Split(inner, "-")
	assert.Len(t, parts, 3)
	for _, p := range parts {
		assert.Len(t, p, 12)
	}

	// 两次生成不应相同
	assert.NotEqual(t, flag, GenerateDynamicFlag())
}
