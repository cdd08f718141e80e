package catalog

// c_Moneda (ISO 4217). XXX marks transactions without currency.
var moneda = map[string]string{
	"AED": "Dirham de EAU",
	"ARS": "Peso Argentino",
	"AUD": "Dólar Australiano",
	"BOB": "Boliviano",
	"BRL": "Real Brasileño",
	"CAD": "Dólar Canadiense",
	"CHF": "Franco Suizo",
	"CLP": "Peso Chileno",
	"CNY": "Yuan Renminbi",
	"COP": "Peso Colombiano",
	"CRC": "Colón Costarricense",
	"CUP": "Peso Cubano",
	"CZK": "Corona Checa",
	"DKK": "Corona Danesa",
	"DOP": "Peso Dominicano",
	"EGP": "Libra Egipcia",
	"EUR": "Euro",
	"GBP": "Libra Esterlina",
	"GTQ": "Quetzal",
	"HKD": "Dólar de Hong Kong",
	"HNL": "Lempira",
	"HUF": "Forinto",
	"IDR": "Rupia Indonesia",
	"ILS": "Nuevo Shekel Israelí",
	"INR": "Rupia India",
	"JPY": "Yen",
	"KRW": "Won",
	"MXN": "Peso Mexicano",
	"MYR": "Ringgit Malayo",
	"NIO": "Córdoba Oro",
	"NOK": "Corona Noruega",
	"NZD": "Dólar Neozelandés",
	"PAB": "Balboa",
	"PEN": "Sol",
	"PHP": "Peso Filipino",
	"PLN": "Zloty",
	"PYG": "Guaraní",
	"RON": "Leu Rumano",
	"RUB": "Rublo Ruso",
	"SAR": "Riyal Saudí",
	"SEK": "Corona Sueca",
	"SGD": "Dólar de Singapur",
	"THB": "Baht",
	"TRY": "Lira Turca",
	"TWD": "Nuevo Dólar Taiwanés",
	"UAH": "Grivna",
	"USD": "Dólar americano",
	"UYU": "Peso Uruguayo",
	"VES": "Bolívar Soberano",
	"VND": "Dong",
	"ZAR": "Rand",
	"XXX": "Los códigos asignados para las transacciones en que no intervenga ninguna moneda",
}

// c_Pais (ISO 3166-1 alpha-3).
var pais = map[string]string{
	"ARG": "Argentina",
	"AUS": "Australia",
	"AUT": "Austria",
	"BEL": "Bélgica",
	"BLZ": "Belice",
	"BOL": "Bolivia",
	"BRA": "Brasil",
	"CAN": "Canadá",
	"CHE": "Suiza",
	"CHL": "Chile",
	"CHN": "China",
	"COL": "Colombia",
	"CRI": "Costa Rica",
	"CUB": "Cuba",
	"CZE": "República Checa",
	"DEU": "Alemania",
	"DNK": "Dinamarca",
	"DOM": "República Dominicana",
	"ECU": "Ecuador",
	"EGY": "Egipto",
	"ESP": "España",
	"FIN": "Finlandia",
	"FRA": "Francia",
	"GBR": "Reino Unido",
	"GRC": "Grecia",
	"GTM": "Guatemala",
	"HKG": "Hong Kong",
	"HND": "Honduras",
	"HUN": "Hungría",
	"IDN": "Indonesia",
	"IND": "India",
	"IRL": "Irlanda",
	"ISR": "Israel",
	"ITA": "Italia",
	"JPN": "Japón",
	"KOR": "República de Corea",
	"MEX": "México",
	"MYS": "Malasia",
	"NIC": "Nicaragua",
	"NLD": "Países Bajos",
	"NOR": "Noruega",
	"NZL": "Nueva Zelanda",
	"PAN": "Panamá",
	"PER": "Perú",
	"PHL": "Filipinas",
	"POL": "Polonia",
	"PRT": "Portugal",
	"PRY": "Paraguay",
	"ROU": "Rumania",
	"RUS": "Federación de Rusia",
	"SAU": "Arabia Saudita",
	"SGP": "Singapur",
	"SLV": "El Salvador",
	"SWE": "Suecia",
	"THA": "Tailandia",
	"TUR": "Turquía",
	"TWN": "Taiwán",
	"UKR": "Ucrania",
	"URY": "Uruguay",
	"USA": "Estados Unidos (los)",
	"VEN": "Venezuela",
	"VNM": "Viet Nam",
	"ZAF": "Sudáfrica",
	"ZZZ": "Países no declarados",
}
