package dbx

import (
	"fmt"
	"strconv"

	"pizza-store/internal/apperr"
)

func parseInt64(s string) (int64, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return -1, apperr.Execution("parse sequence value", fmt.Errorf("%q: %v", s, err))
	}
	return n, nil
}
