//go:build addrdebug

package gfx9

const debugAsserts = true
