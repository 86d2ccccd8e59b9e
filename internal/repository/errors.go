package repository

import "fmt"

func errNotInitialized(what string) error {
	return fmt.Errorf("%s not initialized", what)
}
