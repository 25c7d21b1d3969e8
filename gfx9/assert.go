//go:build !addrdebug

package gfx9

// debugAsserts makes consistency checks panic. Enable with -tags addrdebug.
const debugAsserts = false
