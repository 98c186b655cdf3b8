// Package testutil contains helper builders and fakes used across tests to
// reduce boilerplate when constructing messages and driving the prompt loop
// through a scripted conversation. They are not intended for production usage.
package testutil
