package dto

import (
	"net/url"
	"strconv"

	"github.com/baechuer/user-service/internal/application/users"
	"github.com/baechuer/user-service/internal/domain"
)

type ListQuery struct {
	Skip  int
	Limit int
}

// ParseListQuery reads skip (>= 0, default 0) and limit (1..200, default 50).
// A key that is present with an empty value is rejected, not defaulted.
func ParseListQuery(q url.Values) (ListQuery, error) {
	out := ListQuery{Skip: 0, Limit: users.DefaultListLimit}

	if q.Has("skip") {
		n, err := strconv.Atoi(q.Get("skip"))
		if err != nil {
			return ListQuery{}, domain.ErrInvalidField("skip", "must be an integer")
		}
		if n < 0 {
			return ListQuery{}, domain.ErrInvalidField("skip", "must be >= 0")
		}
		out.Skip = n
	}

	if q.Has("limit") {
		n, err := strconv.Atoi(q.Get("limit"))
		if err != nil {
			return ListQuery{}, domain.ErrInvalidField("limit", "must be an integer")
		}
		if n < 1 || n > users.MaxListLimit {
			return ListQuery{}, domain.ErrInvalidField("limit", "must be between 1 and 200")
		}
		out.Limit = n
	}

	return out, nil
}

// ParseUserID parses a path id that must be a positive integer.
func ParseUserID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ErrInvalidField("user_id", "must be a positive integer")
	}
	return id, nil
}
