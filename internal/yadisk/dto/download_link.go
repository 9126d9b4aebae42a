package dto

// DownloadLink is the response of the public resources download endpoint.
//
//	{
//	  "href": "https://downloader.disk.yandex.ru/zip/...",
//	  "method": "GET",
//	  "templated": false
//	}
type DownloadLink struct {
	Href      string `json:"href"`
	Method    string `json:"method"`
	Templated bool   `json:"templated"`
}

// APIError is the body returned with non-200 responses.
//
//	{
//	  "message": "Не удалось найти запрошенный ресурс.",
//	  "description": "Resource not found.",
//	  "error": "DiskNotFoundError"
//	}
type APIError struct {
	Message     string `json:"message"`
	Description string `json:"description"`
	Code        string `json:"error"`
}

// String returns the most readable part of the error.
func (e APIError) String() string {
	switch {
	case e.Description != "":
		return e.Description
	case e.Message != "":
		return e.Message
	default:
		return e.Code
	}
}
