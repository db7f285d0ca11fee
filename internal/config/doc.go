// Package config holds the settings shared by the DU scrape jobs.
//
// Defaults carry the DU page URLs, the 2025 calendar year and the result
// file names. An optional .env file and DU_SCRAPE_* environment variables
// override the defaults; the CLI applies its flags on top.
package config
