package service

import "fmt"

// background launches a background goroutine for tasks that should not
// block the request, such as sending emails. The WaitGroup lets the
// server drain these goroutines during shutdown, and the deferred
// recover stops a panic in one of them from killing the process.
func (s *service) background(fn func()) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			if err := recover(); err != nil {
				s.logger.PrintError(fmt.Errorf("%s", err), nil)
			}
		}()
		fn()
	}()
}
