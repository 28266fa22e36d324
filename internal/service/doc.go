// Package service implements the planning operations over the store
// interfaces: goal/deadline/project/library CRUD, the derived filter views,
// and auto-goal generation from deadlines. Sorting and filtering policy
// lives here, not in the stores.
package service
