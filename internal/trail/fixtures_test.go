package trail

// wireRoute returns a valid route in the external shape, using every legacy
// label spelling once.
func wireRoute() Document {
	return Document{
		"route_id":   "camino-portugues",
		"route_name": "Camino Portugués",
		"avg_daily_distance": []any{
			map[string]any{"label": "Short days", "minimum_km": 15.0, "maximum_km": 20.0, "days": 14.0},
			map[string]any{"range_value": "Medium days", "minimum_km": "20", "maximum_km": "25"},
			map[string]any{"avg_daily_distance_3": "Long days", "minimum_mile": 15.5},
		},
		"starting_point": []any{
			map[string]any{"name": "Porto", "avg_distance": "240 km", "avg_daily": "20 km"},
		},
		"stages": []any{
			map[string]any{
				"stage_number":   1.0,
				"stage_name":     "Porto to Vilarinho",
				"distance_km":    "26.5",
				"distance_miles": 16.5,
				"gpx":            "stage-01.gpx",
				"details": map[string]any{
					"total_distance":      "26.5 km",
					"total_time":          "6h 30m",
					"accumulated_ascent":  "320 m",
					"accumulated_descent": "",
					"elevation_profile":   "rolling",
					"walking_surface":     []any{"asphalt", "cobblestone"},
					"challenges":          []any{},
					"highlights":          []any{"Sé Cathedral"},
				},
				"facilities": []any{
					map[string]any{"index": "1", "name": "Maia", "distance": "10 km", "services": []any{"Shop", "ATM"}},
				},
				"accommodations": []any{
					map[string]any{"name": "Albergue de Vilarinho", "price_category": "€", "lat": "41.3", "long": -8.6},
					map[string]any{"name": "Casa da Laura", "price_category": "€€", "contact_url": "https://example.org"},
				},
			},
			map[string]any{
				"stage_number": 2,
				"stage_name":   "Vilarinho to Barcelos",
				"distance_km":  28.0,
				"details": map[string]any{
					"total_distance":      "28 km",
					"total_time":          "7h",
					"accumulated_ascent":  "",
					"accumulated_descent": "",
					"elevation_profile":   "",
					"walking_surface":     []any{},
					"challenges":          []any{"long stretch without water"},
					"highlights":          []any{},
				},
			},
		},
		"unknown_top_level": "dropped",
	}
}
