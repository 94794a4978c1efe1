package common

//go:generate go run github.com/dmarkham/enumer -json -type RegionState -trimprefix Region
//go:generate go run github.com/dmarkham/enumer -json -type DownloadStatus -trimprefix Status

// RegionState is the processing state of a region
// DISCOVERED -> SEARCHED -> (MATCHED -> DOWNLOAD_SUBMITTED | UNMATCHED -> SKIPPED)
type RegionState int

const (
	RegionDISCOVERED RegionState = iota
	RegionSEARCHED
	RegionMATCHED
	RegionDOWNLOAD_SUBMITTED
	RegionUNMATCHED
	RegionSKIPPED
)

// Final returns true if no transition leaves the state
func (s RegionState) Final() bool {
	return s == RegionDOWNLOAD_SUBMITTED || s == RegionSKIPPED
}

// DownloadStatus is the outcome of the download of one file
type DownloadStatus int

const (
	StatusDONE DownloadStatus = iota
	StatusSKIPPED
	StatusFAILED
	StatusTIMEOUT
)

// Success returns true if the file is available locally
func (s DownloadStatus) Success() bool {
	return s == StatusDONE || s == StatusSKIPPED
}
