package swagger

// @Tag.name Mantis Meta
// @Tag.description Operational probes and metadata about the hook service.

// @Tag.name Mantis Hooks
// @Tag.description Beanstalk commit hooks applied to tracker issues.

// @Tag.name Mantis Audits
// @Tag.description Recorded hook requests and their outcomes.

// @Tag.name Hyperusers Meta
// @Tag.description Lightweight availability checks for hyperuser endpoints.

// @Tag.name Hyperusers Auth
// @Tag.description Authentication flows for hyperuser operators.
