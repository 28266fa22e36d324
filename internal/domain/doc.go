// Package domain defines the core planning entities (goals, deadlines,
// projects, library items, coach tips) and their validation rules.
package domain
