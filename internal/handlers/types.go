package handlers

// CreateShortLinkRequest is the request body for creating a short link.
type CreateShortLinkRequest struct {
	Body struct {
		Target   string `doc:"The URL to shorten"                   example:"https://example.com/very/long/path" json:"target"`
		Owner    string `doc:"Identifier of the creating principal" example:"alice"                              json:"owner"`
		Alias    string `doc:"Optional custom alias for the code"   example:"promo"                              json:"alias,omitempty"    required:"false"`
		Category string `doc:"Optional free-text label"             example:"marketing"                          json:"category,omitempty" required:"false"`
	}
}

// CreateShortLinkResponse is the response for a successfully created short link.
type CreateShortLinkResponse struct {
	Headers struct {
		Location string `doc:"The short URL location" header:"Location"`
	}
	Body struct {
		Code      string `doc:"The short code"     example:"8M0kX"                              json:"code"`
		ShortURL  string `doc:"The full short URL" example:"http://localhost:8888/8M0kX"        json:"shortUrl"`
		Target    string `doc:"The original URL"   example:"https://example.com/very/long/path" json:"target"`
		CreatedAt string `doc:"Creation timestamp" example:"2025-01-02T15:04:05Z"               json:"createdAt"`
	}
}

// RedirectRequest is the request for resolving a short link.
type RedirectRequest struct {
	Code string `doc:"The short code" example:"8M0kX" path:"code"`
}
