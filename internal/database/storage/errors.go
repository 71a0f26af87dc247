package storage

import (
	"errors"
	"fmt"

	"github.com/GoArmGo/SmokeLog/internal/domain"
	"github.com/lib/pq"
)

const uniqueViolation = "23505"

// unavailable оборачивает сбой бд так, чтобы наверху он распознавался как ErrStorageUnavailable
func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStorageUnavailable, err)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
