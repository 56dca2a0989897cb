// Package domain models USGS-style earthquake catalog data.
//
// # Data Source
//
// The catalog is a static CSV export with one row per event and a header row.
// Columns used: time, mag, depth, latitude, longitude, place, net, nst, gap,
// dmin, rms. Any column may be missing or blank on a given row.
//
// # Catalog Conventions
//
// Time format:
//
//	ISO 8601 in UTC, e.g. "2023-03-05T14:22:10.123Z".
//	Date-only and space-separated forms are also accepted.
//	Year, Month and Day are derived from the parsed time; an unparsed time
//	leaves them at 0.
//
// Place format:
//
//	"<distance> <compass> of <locality>, <region>"  →  e.g. "10km SW of Example, Chile"
//	The region after the last comma is used as the country. Offshore and
//	US-state regions ("Alaska", "Fiji region") are kept as-is and get no
//	ISO code. A blank place is reported as "Desconocido".
//
// Numeric fields:
//
//	mag       magnitude (scale given by magType, not used here)
//	depth     hypocentre depth in km
//	nst       number of stations used
//	gap       largest azimuthal gap between stations, degrees
//	dmin      distance to nearest station, degrees
//	rms       travel-time residual, seconds
//
//	A value that is blank or fails to parse is NaN, never 0, so it drops out of
//	every aggregate instead of skewing it.
//
// # Classification
//
// Magnitude and depth classes are range tables ([Scheme]) with lower-inclusive,
// upper-exclusive bounds:
//
//	Magnitude: <2 Micro | <4 Menor | <5 Ligero | <6 Moderado | <7 Fuerte | <8 Mayor | ≥8 Gran terremoto
//	Depth:     <70 km Superficial | <300 km Intermedio | ≥300 km Profundo
//
// Tables can be overridden from YAML with [LoadSchemes]; every table is
// validated to cover the whole number line without gaps or overlaps.
//
// # ID Generation
//
// Event IDs are deterministic SHA-256 hashes of time|lat|lon|mag|place, so the
// same file always yields the same IDs. See [generateID].
package domain
