// Package locator finds the two most recent 13F-HR filings of a fund and
// resolves each to the URL of its information table document.
//
// Resolution order for the information table inside a filing:
//  1. a file named infotable.xml
//  2. the first XML file that is not the primary (cover) document
//  3. the only XML file, if there is exactly one
//  4. infotable.xml at the standard archive path, assumed to exist
package locator
