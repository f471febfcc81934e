// SPDX-License-Identifier: MPL-2.0

// Package platform centralizes operating-system name constants for
// runtime.GOOS comparisons, so the string literals are not scattered
// through the codebase.
package platform
