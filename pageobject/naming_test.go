package pageobject

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNameOf(t *testing.T) {
	tests := []struct {
		base           string
		alias          string
		moduleVariable string
	}{
		{"login-page", "LoginPage", "__loginPage__"},
		{"cart", "Cart", "__cart__"},
		{"checkout-step-two", "CheckoutStepTwo", "__checkoutStepTwo__"},
		{"login-2fa", "Login2fa", "__login2fa__"},
		{"trailing-", "Trailing-", "__trailing-__"},
		{"double--dash", "Double-dash", "__double-dash__"},
		{"alreadyCamel", "AlreadyCamel", "__alreadyCamel__"},
	}

	for _, tt := range tests {
		t.Run(tt.base, func(t *testing.T) {
			n := NameOf(tt.base)
			assert.Equal(t, tt.base, n.Base)
			assert.Equal(t, tt.alias, n.Alias)
			assert.Equal(t, tt.moduleVariable, n.ModuleVariable)
		})
	}
}

func TestNameOfAliasAndModuleVariableAgree(t *testing.T) {
	for _, base := range []string{"login-page", "a", "search-results-page", "x-y-z"} {
		n := NameOf(base)
		camel := n.ModuleVariable[2 : len(n.ModuleVariable)-2]
		assert.Equal(t, n.Alias, upperFirst(camel), base)
		assert.Equal(t, CamelCase(base), camel, base)
	}
}

func TestOptionsQualifiesAndPath(t *testing.T) {
	opts := DefaultOptions("/work")

	assert.True(t, opts.Qualifies("../objects/login-page"))
	assert.False(t, opts.Qualifies("../objects/composite/checkout"))
	assert.False(t, opts.Qualifies("../helpers/login-page"))

	assert.Equal(t, filepath.Join("/work", "objects", "login-page.js"), opts.Path("login-page"))
}
