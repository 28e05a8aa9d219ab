/*
Package handler handles what visitors submit: finishing and ending sign in,
the questionnaire, and calls to the worker's API.
*/
package handler
