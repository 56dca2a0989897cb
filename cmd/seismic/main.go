// Command seismic loads an earthquake catalog CSV and prepares the dashboard
// data behind the rendering front end.
//
// Usage:
//
//	seismic export --data data/data.csv --year 2023 --column mag,depth
//	seismic drilldown month 3 --year 2023
//	seismic validate --data data/data.csv
//	seismic genmock --rows 5000 --out data/mock/generated.csv
//
// Every flag falls back to its environment variable (DATA_PATH, YEAR, ...).
package main

func main() {
	Execute()
}
