// Package api provides HTTP handlers for the planning API.
package api
