package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const googleTokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"

// GoogleVerifier validates Google ID tokens against the tokeninfo
// endpoint. Google performs the signature and expiry checks server-side;
// we additionally pin the audience to our client id.
type GoogleVerifier struct {
	client   *http.Client
	endpoint string
	audience string
	clock    func() time.Time
}

type GoogleOption func(*GoogleVerifier)

// WithEndpoint overrides the tokeninfo URL (tests).
func WithEndpoint(u string) GoogleOption {
	return func(v *GoogleVerifier) { v.endpoint = u }
}

// WithHTTPClient overrides the HTTP client used for verification calls.
func WithHTTPClient(c *http.Client) GoogleOption {
	return func(v *GoogleVerifier) { v.client = c }
}

func NewGoogleVerifier(audience string, opts ...GoogleOption) *GoogleVerifier {
	v := &GoogleVerifier{
		client:   &http.Client{Timeout: 5 * time.Second},
		endpoint: googleTokenInfoURL,
		audience: audience,
		clock:    time.Now,
	}
	for _, o := range opts {
		o(v)
	}
	return v
}

type tokenInfoResponse struct {
	Sub     string `json:"sub"`
	Aud     string `json:"aud"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
	Exp     string `json:"exp"`

	ErrorDescription string `json:"error_description"`
}

func (v *GoogleVerifier) Verify(ctx context.Context, rawToken string) (Identity, error) {
	if rawToken == "" {
		return Identity{}, ErrInvalidToken
	}

	q := url.Values{"id_token": {rawToken}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	var info tokenInfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return Identity{}, fmt.Errorf("%w: decoding tokeninfo: %v", ErrUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		// Google answers 4xx with an error_description for bad tokens.
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return Identity{}, fmt.Errorf("%w: %s", ErrInvalidToken, info.ErrorDescription)
		}
		return Identity{}, fmt.Errorf("%w: tokeninfo status %d", ErrUnavailable, resp.StatusCode)
	}

	if info.Sub == "" || info.Email == "" {
		return Identity{}, ErrInvalidToken
	}
	if v.audience != "" && info.Aud != v.audience {
		return Identity{}, fmt.Errorf("%w: audience mismatch", ErrInvalidToken)
	}
	if exp, err := strconv.ParseInt(info.Exp, 10, 64); err == nil {
		if v.clock().After(time.Unix(exp, 0)) {
			return Identity{}, fmt.Errorf("%w: token expired", ErrInvalidToken)
		}
	}

	return Identity{
		SubjectID:  info.Sub,
		Email:      info.Email,
		Name:       info.Name,
		PictureURL: info.Picture,
	}, nil
}
