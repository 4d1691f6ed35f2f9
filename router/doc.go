// Package router puts the documentation route table behind request
// validation, CORS, a timeout and request logging.
//
// Document routes stream their output, so they should be listed as
// streaming routes: the timeout middleware buffers everything else, and a
// buffered document that fails halfway would reach the client as a complete
// response. WithRouteValidation rejects requests for paths nothing is
// mounted at before they reach the table.
package router
