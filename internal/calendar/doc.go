// Package calendar normalizes raw economic-calendar rows into
// immutable event records.
//
// The package is pure computation: parsing display values (1.5%, 2.5M,
// -0.5%), classifying outcomes against forecasts, mapping currencies to
// their source timezones, classifying trading sessions, building stable
// event identities, and interpreting the source's prose time markers
// ("All Day", "Data For ..."). Nothing here touches the network or the
// filesystem.
//
// Example usage:
//
//	instant, kind := calendar.ApplyRowTime(day, "8:30am")
//	if kind == calendar.TimeValid {
//		rec := calendar.BuildRecord(instant, calendar.RawFields{
//			Currency: "USD",
//			Impact:   "High Impact Expected",
//			Event:    "CPI m/m",
//			Actual:   "0.3%",
//			Forecast: "0.2%",
//		})
//		// rec.EventID == "CPI_m_m_USD_2024-01-15_13:30"
//	}
package calendar
