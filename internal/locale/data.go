// File: internal/locale/data.go
package locale

// Reference data used by the address controls. Display names are plain text;
// escaping happens when they are rendered.

var countryEntries = []Country{
	{Code: "AF", Name: "Afghanistan"},
	{Code: "002", Name: "Africa"},
	{Code: "AL", Name: "Albania"},
	{Code: "DZ", Name: "Algeria"},
	{Code: "AS", Name: "American Samoa"},
	{Code: "019", Name: "Americas"},
	{Code: "AD", Name: "Andorra"},
	{Code: "AO", Name: "Angola"},
	{Code: "AI", Name: "Anguilla"},
	{Code: "AQ", Name: "Antarctica"},
	{Code: "AG", Name: "Antigua & Barbuda"},
	{Code: "AR", Name: "Argentina"},
	{Code: "AM", Name: "Armenia"},
	{Code: "AW", Name: "Aruba"},
	{Code: "AC", Name: "Ascension Island"},
	{Code: "142", Name: "Asia"},
	{Code: "053", Name: "Australasia"},
	{Code: "AU", Name: "Australia"},
	{Code: "AT", Name: "Austria"},
	{Code: "AZ", Name: "Azerbaijan"},
	{Code: "BS", Name: "Bahamas"},
	{Code: "BH", Name: "Bahrain"},
	{Code: "BD", Name: "Bangladesh"},
	{Code: "BB", Name: "Barbados"},
	{Code: "BY", Name: "Belarus"},
	{Code: "BE", Name: "Belgium"},
	{Code: "BZ", Name: "Belize"},
	{Code: "BJ", Name: "Benin"},
	{Code: "BM", Name: "Bermuda"},
	{Code: "BT", Name: "Bhutan"},
	{Code: "BO", Name: "Bolivia"},
	{Code: "BA", Name: "Bosnia & Herzegovina"},
	{Code: "BW", Name: "Botswana"},
	{Code: "BV", Name: "Bouvet Island"},
	{Code: "BR", Name: "Brazil"},
	{Code: "IO", Name: "British Indian Ocean Territory"},
	{Code: "VG", Name: "British Virgin Islands"},
	{Code: "BN", Name: "Brunei"},
	{Code: "BG", Name: "Bulgaria"},
	{Code: "BF", Name: "Burkina Faso"},
	{Code: "BI", Name: "Burundi"},
	{Code: "KH", Name: "Cambodia"},
	{Code: "CM", Name: "Cameroon"},
	{Code: "CA", Name: "Canada"},
	{Code: "IC", Name: "Canary Islands"},
	{Code: "CV", Name: "Cape Verde"},
	{Code: "029", Name: "Caribbean"},
	{Code: "BQ", Name: "Caribbean Netherlands"},
	{Code: "KY", Name: "Cayman Islands"},
	{Code: "CF", Name: "Central African Republic"},
	{Code: "013", Name: "Central America"},
	{Code: "143", Name: "Central Asia"},
	{Code: "EA", Name: "Ceuta & Melilla"},
	{Code: "TD", Name: "Chad"},
	{Code: "CL", Name: "Chile"},
	{Code: "CN", Name: "China"},
	{Code: "CX", Name: "Christmas Island"},
	{Code: "CP", Name: "Clipperton Island"},
	{Code: "CC", Name: "Cocos (Keeling) Islands"},
	{Code: "CO", Name: "Colombia"},
	{Code: "KM", Name: "Comoros"},
	{Code: "CG", Name: "Congo - Brazzaville"},
	{Code: "CD", Name: "Congo - Kinshasa"},
	{Code: "CK", Name: "Cook Islands"},
	{Code: "CR", Name: "Costa Rica"},
	{Code: "HR", Name: "Croatia"},
	{Code: "CU", Name: "Cuba"},
	{Code: "CW", Name: "Curaçao"},
	{Code: "CY", Name: "Cyprus"},
	{Code: "CZ", Name: "Czechia"},
	{Code: "CI", Name: "Côte d’Ivoire"},
	{Code: "DK", Name: "Denmark"},
	{Code: "DG", Name: "Diego Garcia"},
	{Code: "DJ", Name: "Djibouti"},
	{Code: "DM", Name: "Dominica"},
	{Code: "DO", Name: "Dominican Republic"},
	{Code: "014", Name: "Eastern Africa"},
	{Code: "030", Name: "Eastern Asia"},
	{Code: "151", Name: "Eastern Europe"},
	{Code: "EC", Name: "Ecuador"},
	{Code: "EG", Name: "Egypt"},
	{Code: "SV", Name: "El Salvador"},
	{Code: "GQ", Name: "Equatorial Guinea"},
	{Code: "ER", Name: "Eritrea"},
	{Code: "EE", Name: "Estonia"},
	{Code: "ET", Name: "Ethiopia"},
	{Code: "150", Name: "Europe"},
	{Code: "EZ", Name: "Eurozone"},
	{Code: "FK", Name: "Falkland Islands"},
	{Code: "FO", Name: "Faroe Islands"},
	{Code: "FJ", Name: "Fiji"},
	{Code: "FI", Name: "Finland"},
	{Code: "FR", Name: "France"},
	{Code: "GF", Name: "French Guiana"},
	{Code: "PF", Name: "French Polynesia"},
	{Code: "TF", Name: "French Southern Territories"},
	{Code: "GA", Name: "Gabon"},
	{Code: "GM", Name: "Gambia"},
	{Code: "GE", Name: "Georgia"},
	{Code: "DE", Name: "Germany"},
	{Code: "GH", Name: "Ghana"},
	{Code: "GI", Name: "Gibraltar"},
	{Code: "GR", Name: "Greece"},
	{Code: "GL", Name: "Greenland"},
	{Code: "GD", Name: "Grenada"},
	{Code: "GP", Name: "Guadeloupe"},
	{Code: "GU", Name: "Guam"},
	{Code: "GT", Name: "Guatemala"},
	{Code: "GG", Name: "Guernsey"},
	{Code: "GN", Name: "Guinea"},
	{Code: "GW", Name: "Guinea-Bissau"},
	{Code: "GY", Name: "Guyana"},
	{Code: "HT", Name: "Haiti"},
	{Code: "HM", Name: "Heard & McDonald Islands"},
	{Code: "HN", Name: "Honduras"},
	{Code: "HK", Name: "Hong Kong SAR China"},
	{Code: "HU", Name: "Hungary"},
	{Code: "IS", Name: "Iceland"},
	{Code: "IN", Name: "India"},
	{Code: "ID", Name: "Indonesia"},
	{Code: "IR", Name: "Iran"},
	{Code: "IQ", Name: "Iraq"},
	{Code: "IE", Name: "Ireland"},
	{Code: "IM", Name: "Isle of Man"},
	{Code: "IL", Name: "Israel"},
	{Code: "IT", Name: "Italy"},
	{Code: "JM", Name: "Jamaica"},
	{Code: "JP", Name: "Japan"},
	{Code: "JE", Name: "Jersey"},
	{Code: "JO", Name: "Jordan"},
	{Code: "KZ", Name: "Kazakhstan"},
	{Code: "KE", Name: "Kenya"},
	{Code: "KI", Name: "Kiribati"},
	{Code: "XK", Name: "Kosovo"},
	{Code: "KW", Name: "Kuwait"},
	{Code: "KG", Name: "Kyrgyzstan"},
	{Code: "LA", Name: "Laos"},
	{Code: "419", Name: "Latin America"},
	{Code: "LV", Name: "Latvia"},
	{Code: "LB", Name: "Lebanon"},
	{Code: "LS", Name: "Lesotho"},
	{Code: "LR", Name: "Liberia"},
	{Code: "LY", Name: "Libya"},
	{Code: "LI", Name: "Liechtenstein"},
	{Code: "LT", Name: "Lithuania"},
	{Code: "LU", Name: "Luxembourg"},
	{Code: "MO", Name: "Macau SAR China"},
	{Code: "MK", Name: "Macedonia"},
	{Code: "MG", Name: "Madagascar"},
	{Code: "MW", Name: "Malawi"},
	{Code: "MY", Name: "Malaysia"},
	{Code: "MV", Name: "Maldives"},
	{Code: "ML", Name: "Mali"},
	{Code: "MT", Name: "Malta"},
	{Code: "MH", Name: "Marshall Islands"},
	{Code: "MQ", Name: "Martinique"},
	{Code: "MR", Name: "Mauritania"},
	{Code: "MU", Name: "Mauritius"},
	{Code: "YT", Name: "Mayotte"},
	{Code: "054", Name: "Melanesia"},
	{Code: "MX", Name: "Mexico"},
	{Code: "FM", Name: "Micronesia"},
	{Code: "057", Name: "Micronesian Region"},
	{Code: "017", Name: "Middle Africa"},
	{Code: "MD", Name: "Moldova"},
	{Code: "MC", Name: "Monaco"},
	{Code: "MN", Name: "Mongolia"},
	{Code: "ME", Name: "Montenegro"},
	{Code: "MS", Name: "Montserrat"},
	{Code: "MA", Name: "Morocco"},
	{Code: "MZ", Name: "Mozambique"},
	{Code: "MM", Name: "Myanmar (Burma)"},
	{Code: "NA", Name: "Namibia"},
	{Code: "NR", Name: "Nauru"},
	{Code: "NP", Name: "Nepal"},
	{Code: "NL", Name: "Netherlands"},
	{Code: "NC", Name: "New Caledonia"},
	{Code: "NZ", Name: "New Zealand"},
	{Code: "NI", Name: "Nicaragua"},
	{Code: "NE", Name: "Niger"},
	{Code: "NG", Name: "Nigeria"},
	{Code: "NU", Name: "Niue"},
	{Code: "NF", Name: "Norfolk Island"},
	{Code: "003", Name: "North America"},
	{Code: "KP", Name: "North Korea"},
	{Code: "015", Name: "Northern Africa"},
	{Code: "021", Name: "Northern America"},
	{Code: "154", Name: "Northern Europe"},
	{Code: "MP", Name: "Northern Mariana Islands"},
	{Code: "NO", Name: "Norway"},
	{Code: "009", Name: "Oceania"},
	{Code: "OM", Name: "Oman"},
	{Code: "QO", Name: "Outlying Oceania"},
	{Code: "PK", Name: "Pakistan"},
	{Code: "PW", Name: "Palau"},
	{Code: "PS", Name: "Palestinian Territories"},
	{Code: "PA", Name: "Panama"},
	{Code: "PG", Name: "Papua New Guinea"},
	{Code: "PY", Name: "Paraguay"},
	{Code: "PE", Name: "Peru"},
	{Code: "PH", Name: "Philippines"},
	{Code: "PN", Name: "Pitcairn Islands"},
	{Code: "PL", Name: "Poland"},
	{Code: "061", Name: "Polynesia"},
	{Code: "PT", Name: "Portugal"},
	{Code: "XA", Name: "Pseudo-Accents"},
	{Code: "XB", Name: "Pseudo-Bidi"},
	{Code: "PR", Name: "Puerto Rico"},
	{Code: "QA", Name: "Qatar"},
	{Code: "RO", Name: "Romania"},
	{Code: "RU", Name: "Russia"},
	{Code: "RW", Name: "Rwanda"},
	{Code: "RE", Name: "Réunion"},
	{Code: "WS", Name: "Samoa"},
	{Code: "SM", Name: "San Marino"},
	{Code: "SA", Name: "Saudi Arabia"},
	{Code: "SN", Name: "Senegal"},
	{Code: "RS", Name: "Serbia"},
	{Code: "SC", Name: "Seychelles"},
	{Code: "SL", Name: "Sierra Leone"},
	{Code: "SG", Name: "Singapore"},
	{Code: "SX", Name: "Sint Maarten"},
	{Code: "SK", Name: "Slovakia"},
	{Code: "SI", Name: "Slovenia"},
	{Code: "SB", Name: "Solomon Islands"},
	{Code: "SO", Name: "Somalia"},
	{Code: "ZA", Name: "South Africa"},
	{Code: "005", Name: "South America"},
	{Code: "GS", Name: "South Georgia & South Sandwich Islands"},
	{Code: "KR", Name: "South Korea"},
	{Code: "SS", Name: "South Sudan"},
	{Code: "035", Name: "Southeast Asia"},
	{Code: "018", Name: "Southern Africa"},
	{Code: "034", Name: "Southern Asia"},
	{Code: "039", Name: "Southern Europe"},
	{Code: "ES", Name: "Spain"},
	{Code: "LK", Name: "Sri Lanka"},
	{Code: "BL", Name: "St. Barthélemy"},
	{Code: "SH", Name: "St. Helena"},
	{Code: "KN", Name: "St. Kitts & Nevis"},
	{Code: "LC", Name: "St. Lucia"},
	{Code: "MF", Name: "St. Martin"},
	{Code: "PM", Name: "St. Pierre & Miquelon"},
	{Code: "VC", Name: "St. Vincent & Grenadines"},
	{Code: "202", Name: "Sub-Saharan Africa"},
	{Code: "SD", Name: "Sudan"},
	{Code: "SR", Name: "Suriname"},
	{Code: "SJ", Name: "Svalbard & Jan Mayen"},
	{Code: "SZ", Name: "Swaziland"},
	{Code: "SE", Name: "Sweden"},
	{Code: "CH", Name: "Switzerland"},
	{Code: "SY", Name: "Syria"},
	{Code: "ST", Name: "São Tomé & Príncipe"},
	{Code: "TW", Name: "Taiwan"},
	{Code: "TJ", Name: "Tajikistan"},
	{Code: "TZ", Name: "Tanzania"},
	{Code: "TH", Name: "Thailand"},
	{Code: "TL", Name: "Timor-Leste"},
	{Code: "TG", Name: "Togo"},
	{Code: "TK", Name: "Tokelau"},
	{Code: "TO", Name: "Tonga"},
	{Code: "TT", Name: "Trinidad & Tobago"},
	{Code: "TA", Name: "Tristan da Cunha"},
	{Code: "TN", Name: "Tunisia"},
	{Code: "TR", Name: "Turkey"},
	{Code: "TM", Name: "Turkmenistan"},
	{Code: "TC", Name: "Turks & Caicos Islands"},
	{Code: "TV", Name: "Tuvalu"},
	{Code: "UM", Name: "U.S. Outlying Islands"},
	{Code: "VI", Name: "U.S. Virgin Islands"},
	{Code: "UG", Name: "Uganda"},
	{Code: "UA", Name: "Ukraine"},
	{Code: "AE", Name: "United Arab Emirates"},
	{Code: "GB", Name: "United Kingdom"},
	{Code: "UN", Name: "United Nations"},
	{Code: "US", Name: "United States"},
	{Code: "ZZ", Name: "Unknown Region"},
	{Code: "UY", Name: "Uruguay"},
	{Code: "UZ", Name: "Uzbekistan"},
	{Code: "VU", Name: "Vanuatu"},
	{Code: "VA", Name: "Vatican City"},
	{Code: "VE", Name: "Venezuela"},
	{Code: "VN", Name: "Vietnam"},
	{Code: "WF", Name: "Wallis & Futuna"},
	{Code: "011", Name: "Western Africa"},
	{Code: "145", Name: "Western Asia"},
	{Code: "155", Name: "Western Europe"},
	{Code: "EH", Name: "Western Sahara"},
	{Code: "001", Name: "World"},
	{Code: "YE", Name: "Yemen"},
	{Code: "ZM", Name: "Zambia"},
	{Code: "ZW", Name: "Zimbabwe"},
	{Code: "AX", Name: "Åland Islands"},
}

// usSubRegions are the US state, territory and military codes in form order.
var usSubRegions = []string{
	"AL", "AK", "AZ", "AR", "CA", "CO", "CT", "DE", "DC", "FL", "GA", "HI", "ID", "IL",
	"IN", "IA", "KS", "KY", "LA", "ME", "MD", "MA", "MI", "MN", "MS", "MO", "MT", "NE",
	"NV", "NH", "NJ", "NM", "NY", "NC", "ND", "OH", "OK", "OR", "PA", "RI", "SC", "SD",
	"TN", "TX", "UT", "VT", "VA", "WA", "WV", "WI", "WY", "AS", "FM", "GU", "MH", "MP",
	"PW", "PR", "VI", "AA", "AE", "AP",
}

var subRegions = map[string][]string{
	"US": usSubRegions,
}

var postalCodeRequired = setOf(
	"AR", "AU", "CA", "DE", "ES", "FR", "GB", "GF", "GP", "ID", "IN", "IT",
	"JP", "MQ", "MX", "NC", "NL", "PF", "PM", "PT", "RE", "US", "WF", "YT",
)

// gdprRequired lists the codes whose residents fall under GDPR consent rules.
// Includes the host's non-ISO codes "EU", "UK" and "CE".
var gdprRequired = setOf(
	"AT", "AX", "BE", "BG", "BL", "BV", "CE", "CH", "CY", "CZ", "DE", "DK",
	"EE", "ES", "EU", "FI", "FO", "FR", "GB", "GF", "GG", "GI", "GP", "GR",
	"HR", "HU", "IE", "IM", "IO", "IS", "IT", "JE", "LI", "LT", "LU", "LV",
	"MC", "MF", "MQ", "MS", "MT", "NC", "NL", "NO", "PF", "PL", "PM", "PT",
	"RE", "RO", "SE", "SI", "SJ", "SK", "SM", "TF", "TG", "UK", "VA", "WF",
	"YT",
)

func setOf(codes ...string) map[string]bool {
	m := make(map[string]bool, len(codes))
	for _, c := range codes {
		m[c] = true
	}
	return m
}
