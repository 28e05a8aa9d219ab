// Package view renders the pages a visitor navigates between.
package view
