// Package client is the remote collaborator of the wizard: it registers a
// student (create-user) and fetches the form assigned to them (get-form).
//
// Failures are reported as *RequestError values that match
// ErrRegistrationFailed or ErrFetchFailed with errors.Is:
//
//	c, _ := client.New(client.WithTimeout(10 * time.Second))
//	if err := c.CreateUser(ctx, roll, name); errors.Is(err, client.ErrRegistrationFailed) {
//		// stay on the login view
//	}
//
// Local serves a schema from disk for offline use.
package client
