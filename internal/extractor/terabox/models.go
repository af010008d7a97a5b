package terabox

// shareListResponse is the TeraBox share/list API envelope.
type shareListResponse struct {
	Errno  int         `json:"errno"`
	Errmsg string      `json:"errmsg"`
	List   []shareFile `json:"list"`
}

type shareFile struct {
	FsID           int64       `json:"fs_id"`
	ServerFilename string      `json:"server_filename"`
	Size           int64       `json:"size"`
	Category       int         `json:"category"` // 1 = video
	Dlink          string      `json:"dlink"`
	Thumbs         *shareThumb `json:"thumbs"`
}

type shareThumb struct {
	URL1 string `json:"url1"`
	URL2 string `json:"url2"`
	URL3 string `json:"url3"`
}

// bestThumb picks the largest available thumbnail variant.
func (f *shareFile) bestThumb() string {
	if f.Thumbs == nil {
		return ""
	}
	switch {
	case f.Thumbs.URL3 != "":
		return f.Thumbs.URL3
	case f.Thumbs.URL2 != "":
		return f.Thumbs.URL2
	default:
		return f.Thumbs.URL1
	}
}

// Errno values the share API returns. Anything not listed is treated as a
// connection-class failure.
const (
	errnoOK           = 0
	errnoInvalidLink  = 2
	errnoAuthFailed   = -6
	errnoFileNotFound = -9
	errnoAuthExpired  = -21
	errnoHitLimit     = -62
	errnoCaptcha      = -19
)
