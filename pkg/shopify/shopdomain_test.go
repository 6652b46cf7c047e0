package shopify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeShopDomain(t *testing.T) {
	valid := map[string]string{
		"my-shop.myshopify.com":     "my-shop.myshopify.com",
		"  My-Shop.MyShopify.com  ": "my-shop.myshopify.com",
		"s.myshopify.com":           "s.myshopify.com",
	}
	for in, want := range valid {
		got, ok := NormalizeShopDomain(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got)
	}

	invalid := []string{
		"",
		"evil.com",
		"shop.myshopify.com.evil.com",
		"https://shop.myshopify.com",
		"shop.myshopify.com/admin",
		"-shop.myshopify.com",
		"sh op.myshopify.com",
		"attacker.com#.myshopify.com",
	}
	for _, in := range invalid {
		_, ok := NormalizeShopDomain(in)
		assert.False(t, ok, in)
	}
}
