package usecase

import (
	"errors"
	"fmt"
)

var (
	ErrStorage       = errors.New("storage error")
	ErrPersist       = errors.New("persist failed")
	ErrInvalidExport = errors.New("invalid export document")
	ErrCorruptStored = errors.New("corrupt stored document")
)

func wrapStorage(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrStorage, err)
}
