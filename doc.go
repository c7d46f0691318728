// Package mantisbeanstalk provides top-level metadata for the Mantis Beanstalk hook API.
//
// @title Mantis Beanstalk Hook API
// @version 0.1.0
// @description Applies bracketed commit-message directives from Beanstalk commit hooks to MantisBT issues.
// @BasePath /
// @securityDefinitions.apikey HyperUserAuth
// @in header
// @name Authorization
// @description Provide the hyperuser bearer token as `Bearer <token>`.
package mantisbeanstalk
