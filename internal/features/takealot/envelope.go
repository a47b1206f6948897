package takealot

// The seller API's response envelope is not uniform across endpoints: some
// return a bare array, others wrap the page under "offers", "sales",
// "results" or "data". unwrapEnvelope tries each known shape in order.
func unwrapEnvelope(body interface{}) []map[string]interface{} {
	if records, ok := toRecords(body); ok {
		return records
	}

	envelope, ok := body.(map[string]interface{})
	if !ok {
		return nil
	}

	for _, key := range []string{"offers", "sales", "orders", "results", "data"} {
		if records, ok := toRecords(envelope[key]); ok {
			return records
		}
	}

	return nil
}

func toRecords(v interface{}) ([]map[string]interface{}, bool) {
	items, ok := v.([]interface{})
	if !ok {
		return nil, false
	}

	records := make([]map[string]interface{}, 0, len(items))
	for _, item := range items {
		if record, ok := item.(map[string]interface{}); ok {
			records = append(records, record)
		}
	}
	return records, true
}

func authHeader(creds Credentials) string {
	if creds.Scheme == AuthSchemeBearer {
		return "Bearer " + creds.APIKey
	}
	return "Key " + creds.APIKey
}
