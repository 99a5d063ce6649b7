// Package normalize turns each extracted unit into a flat, renumbered
// sequence of bounded JPEG pages.
//
// Within a unit, image files are ordered by case-folded base name regardless
// of how the archive nested them, filtered to known image extensions, and
// written as page_0000.jpg, page_0001.jpg, ... Everything else an archive
// carries, such as metadata files or thumbnail databases, is skipped without error.
// Resizing is delegated to a Resizer so the package stays free of codec
// details.
package normalize
