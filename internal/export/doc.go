// Package export writes rendered entries and their media to disk.
//
// Each entry becomes one Markdown file named by its local date and id:
//
//	<markdown>/2023-11-19-daylio-3.md
//	<markdown>/2023/11/2023-11-19-daylio-3.md   (nested layout)
//
// Media files are copied flat into the media directory under the file
// name they have in the archive. Daylio stores media without extensions,
// so one is added from the sniffed content type:
//
//	assets/photos/2023/11/12  ->  <media>/12.png
//
// # Overwrite Semantics
//
// Files are replaced whole, never merged. A write goes to a temporary
// file that is renamed into place. When the existing file already has
// identical content (compared by BLAKE3 digest) it is left untouched, so
// re-running a conversion does not touch modification times.
package export
