// Package extract discovers comic archives in a directory and unpacks each
// into its own indexed scratch subarea.
//
// Discovery order is the single source of ordering for the whole pipeline:
// archives are sorted by case-folded file name and numbered from zero. The
// index assigned here names the raw and normalized subareas and decides
// where the issue lands in the final documents.
package extract
