// Package all links every runtime package into the registry. Importing it
// for side effects gives a machine the full symbol surface:
//
//	import _ "github.com/skiff-os/crt/internal/rt/all"
package all

import (
	_ "github.com/skiff-os/crt/internal/rt/alloc"
	_ "github.com/skiff-os/crt/internal/rt/ctype"
	_ "github.com/skiff-os/crt/internal/rt/libm"
	_ "github.com/skiff-os/crt/internal/rt/locale"
	_ "github.com/skiff-os/crt/internal/rt/nosys"
	_ "github.com/skiff-os/crt/internal/rt/stdio"
	_ "github.com/skiff-os/crt/internal/rt/stdlib"
	_ "github.com/skiff-os/crt/internal/rt/str"
	_ "github.com/skiff-os/crt/internal/rt/vmload"
)
