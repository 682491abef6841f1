package prompt

// PhotoURLFormat is the stock photo URL pattern the model must use.
const PhotoURLFormat = "https://images.pexels.com/photos/[ID]/pexels-photo-[ID].jpeg?auto=compress&cs=tinysrgb&w=[WIDTH]"

// PhotoCategory is a named list of stock photo ids known to exist.
type PhotoCategory struct {
	Name string
	IDs  []string
}

// PhotoCategories is the fixed catalogue offered to the model.
var PhotoCategories = []PhotoCategory{
	{"Business/Office", []string{"3183150", "3184291", "3184292", "1181605", "3182812", "3184357", "3184360", "3184416", "3184423", "3184436"}},
	{"Tech/Code", []string{"1181244", "1181263", "577585", "546819", "1714208", "1181396", "1181467", "1181675", "1181695", "1181735"}},
	{"Medical/Health", []string{"416778", "3259628", "3259623", "5215024", "3038740", "40568", "40569", "40570", "40571", "40572"}},
	{"Food/Restaurant", []string{"1640777", "1267320", "958545", "262978", "699953", "1267321", "1267322", "1267323", "1267324", "1267325"}},
	{"Nature/General", []string{"3225517", "1761279", "1287145", "1323550", "1323551", "1323552", "1323553", "1323554", "1323555", "1323556"}},
	{"Mechanic/Auto", []string{"4489749", "3806249", "2244746", "190574", "3807386", "3807390", "3807395", "3807400", "3807405", "3807410"}},
	{"Creative/Art", []string{"1552242", "1552243", "1552244", "1552245", "1552246", "1552247", "1552248", "1552249", "1552250", "1552251"}},
	{"Lifestyle/Fashion", []string{"1926769", "1926770", "1926771", "1926772", "1926773", "1926774", "1926775", "1926776", "1926777", "1926778"}},
}
