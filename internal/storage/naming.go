package storage

import (
	"strings"
	"time"
)

// TimestampLayout renders DD_MM_YYYY_HH_MM_SS with a 24-hour clock
const TimestampLayout = "02_01_2006_15_04_05"

// DeriveName builds the destination object name from the original file name
// and the upload time. The extension (text after the last '.') is replaced
// and the result always ends in ".txt".
func DeriveName(original string, now time.Time) string {
	base := original
	if idx := strings.LastIndex(original, "."); idx >= 0 {
		base = original[:idx]
	}
	return base + "_" + now.Format(TimestampLayout) + ".txt"
}

// ObjectPath joins the folder prefix and the object name
func ObjectPath(folder, name string) string {
	if folder == "" || strings.HasSuffix(folder, "/") {
		return folder + name
	}
	return folder + "/" + name
}
