// Copyright 2026 The hurlgo Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package script

// QueryKind enumerates the extraction operations of captures and asserts.
type QueryKind uint8

// The query kinds.
const (
	QueryStatus QueryKind = iota
	QueryVersion
	QueryURL
	QueryHeader
	QueryCookie
	QueryBody
	QueryBytes
	QueryXPath
	QueryJSONPath
	QueryRegex
	QuerySHA256
	QueryMD5
	QueryIP
	QueryDuration
	QueryCertificate
	QueryVariable
	QueryEnv
)

var queryNames = map[QueryKind]string{
	QueryStatus:      "status",
	QueryVersion:     "version",
	QueryURL:         "url",
	QueryHeader:      "header",
	QueryCookie:      "cookie",
	QueryBody:        "body",
	QueryBytes:       "bytes",
	QueryXPath:       "xpath",
	QueryJSONPath:    "jsonpath",
	QueryRegex:       "regex",
	QuerySHA256:      "sha256",
	QueryMD5:         "md5",
	QueryIP:          "ip",
	QueryDuration:    "duration",
	QueryCertificate: "certificate",
	QueryVariable:    "variable",
	QueryEnv:         "env",
}

func (k QueryKind) String() string { return queryNames[k] }

// CookieAttribute selects an attribute of a cookie in a cookie query.
type CookieAttribute uint8

// The cookie attributes of a cookie path.
const (
	CookieValue CookieAttribute = iota
	CookieExpires
	CookieMaxAge
	CookieDomain
	CookiePathAttr
	CookieSecure
	CookieHTTPOnly
	CookieSameSite
)

var cookieAttrNames = map[CookieAttribute]string{
	CookieValue:    "Value",
	CookieExpires:  "Expires",
	CookieMaxAge:   "Max-Age",
	CookieDomain:   "Domain",
	CookiePathAttr: "Path",
	CookieSecure:   "Secure",
	CookieHTTPOnly: "HttpOnly",
	CookieSameSite: "SameSite",
}

func (a CookieAttribute) String() string { return cookieAttrNames[a] }

// CookiePath addresses a cookie and one of its attributes, e.g.
// "session[Domain]". The name is itself a template.
type CookiePath struct {
	Name      Template
	Attribute CookieAttribute
}

// CertificateField selects a field of the server certificate.
type CertificateField uint8

// The certificate fields.
const (
	CertSubject CertificateField = iota
	CertIssuer
	CertStartDate
	CertExpireDate
	CertSerialNumber
)

var certFieldNames = map[CertificateField]string{
	CertSubject:      "Subject",
	CertIssuer:       "Issuer",
	CertStartDate:    "Start-Date",
	CertExpireDate:   "Expire-Date",
	CertSerialNumber: "Serial-Number",
}

func (f CertificateField) String() string { return certFieldNames[f] }

// Query is the extraction side of a capture or assert. Exactly the fields
// matching Kind are meaningful.
type Query struct {
	Kind QueryKind

	// Header holds the header name of a header query.
	Header Template

	// Cookie holds the cookie path of a cookie query.
	Cookie CookiePath

	// Expr holds the expression of jsonpath, xpath and regex queries.
	// For regex queries the first capture group is extracted.
	Expr Template

	// Name holds the name of variable and env queries.
	Name Template

	// Cert holds the field of a certificate query.
	Cert CertificateField

	SourceInfo SourceInfo
}
