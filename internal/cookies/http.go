package cookies

import (
	"net/http"
	"sync"
	"time"
)

// HTTPStore is the Store for one HTTP exchange: reads come from the request's Cookie
// header, writes become Set-Cookie headers on the response. Writes are visible to later
// reads within the same exchange.
type HTTPStore struct {
	w   http.ResponseWriter
	r   *http.Request
	now time.Time

	mu      sync.Mutex
	written map[string]*string
}

// NewHTTPStore binds a Store to w and r. now anchors expiry computation.
func NewHTTPStore(w http.ResponseWriter, r *http.Request, now time.Time) *HTTPStore {
	return &HTTPStore{w: w, r: r, now: now, written: make(map[string]*string)}
}

func (s *HTTPStore) Set(name, value string, days int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	expires := expiry(s.now, days)
	http.SetCookie(s.w, &http.Cookie{
		Name:     name,
		Value:    encode(value),
		Path:     Path,
		Expires:  expires,
		MaxAge:   int(expires.Sub(s.now).Seconds()),
		SameSite: http.SameSiteLaxMode,
	})
	v := value
	s.written[name] = &v
}

func (s *HTTPStore) Get(name string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.written[name]; ok {
		if v == nil {
			return "", false
		}
		return *v, true
	}
	c, err := s.r.Cookie(name)
	if err != nil || c.Value == "" {
		return "", false
	}
	return decode(c.Value), true
}

func (s *HTTPStore) Delete(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	http.SetCookie(s.w, &http.Cookie{
		Name:    name,
		Value:   "",
		Path:    Path,
		Expires: epoch,
		MaxAge:  -1,
	})
	s.written[name] = nil
}

var _ Store = (*HTTPStore)(nil)
