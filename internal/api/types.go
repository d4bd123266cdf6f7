package api

// ArrayInfo is the JSON shape returned for a single .npy file.
type ArrayInfo struct {
	Name         string `json:"name"`
	DType        string `json:"dtype"`
	Shape        []int  `json:"shape"`
	FortranOrder bool   `json:"fortran_order"`
	Elements     int    `json:"elements"`
	ByteSize     int    `json:"byte_size"`
	Version      string `json:"version"`
	FileSize     int64  `json:"file_size"`
}

// ListResponse wraps the directory listing.
type ListResponse struct {
	RequestID string      `json:"request_id"`
	Arrays    []ArrayInfo `json:"arrays"`
}

// ResponseError is the error body for every non-2xx response.
type ResponseError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}
