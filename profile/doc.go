// Package profile stores the answers a user gives the questionnaire.
package profile
