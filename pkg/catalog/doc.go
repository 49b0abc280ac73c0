// Package catalog provides localized user-facing messages.
//
// Locales are embedded YAML files (locales/<tag>.yaml). A Catalog holds one
// active language chosen with golang.org/x/text/language matching; lookups
// fall back to the base locale and finally to the key itself.
package catalog
