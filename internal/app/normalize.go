package app

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Moowses/stay-engine/internal/domain"
)

/********** alias registries (single source of truth) **********/

var rowAliases = map[string][]string{
	"room_type_id":   {"roomTypeId", "roomTypeID", "room_type_id", "roomTypeNo", "room_type_no", "rateId"},
	"room_type_name": {"roomTypeName", "room_type_name", "roomName", "room_name", "name"},
	"currency":       {"currencyCode", "currency_code", "currency"},
	"daily_prices":   {"dailyPrices", "daily_prices", "priceByDate", "prices", "nightlyRates"},
	"availability":   {"availability", "availabilityByDate", "availability_by_date", "availableDates"},
	"min_stay_map":   {"minStayByDate", "min_stay_by_date", "minStays"},
	"max_stay_map":   {"maxStayByDate", "max_stay_by_date", "maxStays"},
	"min_stay":       {"defaultMinStay", "minStay", "min_stay", "minimumStay"},
	"max_stay":       {"defaultMaxStay", "maxStay", "max_stay", "maximumStay"},
	"pet_fee":        {"petFeeAmount", "petFee", "pet_fee"},
	"cleaning_fee":   {"cleaningFeeAmount", "cleaningFee", "cleaning_fee"},
	"vat":            {"vatAmount", "vat", "tax", "taxAmount"},
	"room_types":     {"roomTypes", "room_types", "roomTypeIds"},
}

/********** payload shapes **********/

// payloadShape tags the decoded upstream payload. The upstream answers the
// same query in several shapes depending on scope and era of the endpoint, so
// detection is a dedicated step producing a tagged value, not a chain of
// optional probes scattered through the mapping code.
type payloadShape int

const (
	shapeUnknown payloadShape = iota
	shapeSentinel
	shapeRows
	shapeCompactRoom
	shapeRoomTypeIndex
)

type upstreamPayload struct {
	shape     payloadShape
	sentinel  string           // shapeSentinel: the raw "no rooms" string
	rows      []map[string]any // shapeRows
	compact   map[string]any   // shapeCompactRoom
	roomTypes []string         // shapeRoomTypeIndex
}

// detectShape unwraps {data: ...} envelopes (the upstream sometimes nests
// twice) and classifies what is left. A string at any unwrap depth is the
// upstream's "no availability" sentinel, not an error.
func detectShape(v any) upstreamPayload {
	for i := 0; i < 3; i++ {
		if s, ok := v.(string); ok {
			return upstreamPayload{shape: shapeSentinel, sentinel: s}
		}
		m, ok := v.(map[string]any)
		if !ok {
			break
		}
		inner, has := m["data"]
		if !has || i == 2 {
			break
		}
		v = inner
	}

	switch t := v.(type) {
	case string:
		return upstreamPayload{shape: shapeSentinel, sentinel: t}
	case []any:
		rows := make([]map[string]any, 0, len(t))
		for _, el := range t {
			if row, ok := el.(map[string]any); ok {
				rows = append(rows, row)
			}
		}
		return upstreamPayload{shape: shapeRows, rows: rows}
	case map[string]any:
		if ids := roomTypeList(t); ids != nil {
			return upstreamPayload{shape: shapeRoomTypeIndex, roomTypes: ids}
		}
		if hasAnyKey(t, rowAliases["daily_prices"]) || hasAnyKey(t, rowAliases["availability"]) {
			return upstreamPayload{shape: shapeCompactRoom, compact: t}
		}
	}
	return upstreamPayload{shape: shapeUnknown}
}

// sentinelReason maps the upstream's free-text sentinel onto a reason code.
func sentinelReason(s string) domain.Reason {
	if strings.Contains(strings.ToLower(s), "area") {
		return domain.ReasonNoAreaCoverage
	}
	return domain.ReasonNoRooms
}

func hasAnyKey(m map[string]any, keys []string) bool {
	for _, k := range keys {
		if _, ok := m[k]; ok {
			return true
		}
	}
	return false
}

// roomTypeList extracts the fan-out id list from a compact per-property
// object. Entries may be plain ids or {roomTypeId: ...} objects.
func roomTypeList(m map[string]any) []string {
	for _, k := range rowAliases["room_types"] {
		raw, ok := m[k].([]any)
		if !ok {
			continue
		}
		out := make([]string, 0, len(raw))
		for _, el := range raw {
			switch t := el.(type) {
			case map[string]any:
				if id := flexString(lookupFirst(t, rowAliases["room_type_id"])); id != "" {
					out = append(out, id)
				}
			default:
				if id := flexString(t); id != "" {
					out = append(out, id)
				}
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

/********** row mapping **********/

// mapRow converts one row-shaped (or compact single-room) object into the
// canonical record. Currency falls back to the query's requested currency.
func mapRow(row map[string]any, q domain.AvailabilityQuery) domain.RoomAvailabilityRecord {
	rec := domain.RoomAvailabilityRecord{
		RoomTypeID:    flexString(lookupFirst(row, rowAliases["room_type_id"])),
		RoomTypeName:  flexString(lookupFirst(row, rowAliases["room_type_name"])),
		CurrencyCode:  flexString(lookupFirst(row, rowAliases["currency"])),
		DailyPrices:   amountMap(lookupFirst(row, rowAliases["daily_prices"])),
		Availability:  boolMap(lookupFirst(row, rowAliases["availability"])),
		MinStayByDate: intMap(lookupFirst(row, rowAliases["min_stay_map"])),
		MaxStayByDate: intMap(lookupFirst(row, rowAliases["max_stay_map"])),
		PetFee:        domain.CoerceAmount(lookupFirst(row, rowAliases["pet_fee"])),
		CleaningFee:   domain.CoerceAmount(lookupFirst(row, rowAliases["cleaning_fee"])),
		VAT:           domain.CoerceAmount(lookupFirst(row, rowAliases["vat"])),
	}
	if rec.CurrencyCode == "" {
		rec.CurrencyCode = q.Currency
	}
	rec.DefaultMinStay = flexIntPtr(lookupFirst(row, rowAliases["min_stay"]))
	rec.DefaultMaxStay = flexIntPtr(lookupFirst(row, rowAliases["max_stay"]))
	return rec
}

// rowTotal sums the record's nightly prices over the queried night keys.
// Used by the placeholder filter: a row pricing to zero over the requested
// window carries nothing bookable.
func rowTotal(rec *domain.RoomAvailabilityRecord, q domain.AvailabilityQuery) decimal.Decimal {
	total := decimal.Zero
	for _, d := range q.Window().Days() {
		total = total.Add(rec.NightPrice(d))
	}
	return total
}

// allQueriedNightsAvailable is the compact-shape accept rule: every requested
// night must be explicitly marked available.
func allQueriedNightsAvailable(rec *domain.RoomAvailabilityRecord, q domain.AvailabilityQuery) bool {
	days := q.Window().Days()
	if len(days) == 0 {
		return false
	}
	for _, d := range days {
		if !rec.NightAvailable(d) {
			return false
		}
	}
	return true
}

/********** flexible coercion helpers **********/

// lookupFirst returns the first present value among the alias paths. Dots in
// an alias descend into nested objects.
func lookupFirst(m map[string]any, paths []string) any {
	for _, p := range paths {
		if v := lookupPath(m, p); v != nil {
			return v
		}
	}
	return nil
}

func lookupPath(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// flexString renders ids and names that arrive as strings or numbers.
func flexString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatInt(int64(t), 10)
	case int:
		return strconv.Itoa(t)
	default:
		return ""
	}
}

func flexInt(v any) (int, bool) {
	switch t := v.(type) {
	case float64:
		return int(t), true
	case int:
		return t, true
	case int64:
		return int(t), true
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return int(n), true
		}
		if f, err := t.Float64(); err == nil {
			return int(f), true
		}
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
			return n, true
		}
	}
	return 0, false
}

func flexIntPtr(v any) *int {
	if n, ok := flexInt(v); ok {
		return &n
	}
	return nil
}

func flexBool(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0
	case json.Number:
		f, err := t.Float64()
		return err == nil && f != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "1", "y", "yes", "available", "open":
			return true
		}
	}
	return false
}

// amountMap decodes a date-keyed price object, keeping only well-formed day
// keys so one junk entry can't shift a lookup.
func amountMap(v any) map[string]decimal.Decimal {
	raw, ok := v.(map[string]any)
	if !ok {
		return map[string]decimal.Decimal{}
	}
	out := make(map[string]decimal.Decimal, len(raw))
	for k, val := range raw {
		if domain.IsDay(k) {
			out[k] = domain.CoerceAmount(val)
		}
	}
	return out
}

func boolMap(v any) map[string]bool {
	raw, ok := v.(map[string]any)
	if !ok {
		return map[string]bool{}
	}
	out := make(map[string]bool, len(raw))
	for k, val := range raw {
		if domain.IsDay(k) {
			out[k] = flexBool(val)
		}
	}
	return out
}

func intMap(v any) map[string]int {
	raw, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	out := make(map[string]int, len(raw))
	for k, val := range raw {
		if n, ok := flexInt(val); ok && domain.IsDay(k) {
			out[k] = n
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
