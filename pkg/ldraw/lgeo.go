package ldraw

// lgeoPalette holds sRGB values, 0-255, taken from the LGEO lg_color.inc
// palette. Code 38 is handled separately in ApplyScheme.
var lgeoPalette = map[int][3]float32{
	0:   {33, 33, 33},
	1:   {13, 105, 171},
	2:   {40, 127, 70},
	3:   {0, 143, 155},
	4:   {196, 40, 27},
	5:   {205, 98, 152},
	6:   {98, 71, 50},
	7:   {161, 165, 162},
	8:   {109, 110, 108},
	9:   {180, 210, 227},
	10:  {75, 151, 74},
	11:  {85, 165, 175},
	12:  {242, 112, 94},
	13:  {252, 151, 172},
	14:  {245, 205, 47},
	15:  {242, 243, 242},
	17:  {194, 218, 184},
	18:  {249, 233, 153},
	19:  {215, 197, 153},
	20:  {193, 202, 222},
	21:  {224, 255, 176},
	22:  {107, 50, 123},
	23:  {35, 71, 139},
	25:  {218, 133, 64},
	26:  {146, 57, 120},
	27:  {164, 189, 70},
	28:  {149, 138, 115},
	29:  {228, 173, 200},
	30:  {172, 120, 186},
	31:  {225, 213, 237},
	32:  {0, 20, 20},
	33:  {123, 182, 232},
	34:  {132, 182, 141},
	35:  {217, 228, 167},
	36:  {205, 84, 75},
	37:  {228, 173, 200},
	40:  {166, 145, 130},
	41:  {170, 229, 255},
	42:  {198, 255, 0},
	43:  {193, 223, 240},
	44:  {150, 112, 159},
	46:  {247, 241, 141},
	47:  {252, 252, 252},
	52:  {156, 149, 199},
	54:  {255, 246, 123},
	57:  {226, 176, 96},
	65:  {236, 201, 53},
	66:  {202, 176, 0},
	67:  {255, 255, 255},
	68:  {243, 207, 155},
	69:  {142, 66, 133},
	70:  {105, 64, 39},
	71:  {163, 162, 164},
	72:  {99, 95, 97},
	73:  {110, 153, 201},
	74:  {161, 196, 139},
	77:  {220, 144, 149},
	78:  {246, 215, 179},
	79:  {255, 255, 255},
	80:  {140, 140, 140},
	82:  {219, 172, 52},
	84:  {170, 125, 85},
	85:  {52, 43, 117},
	86:  {124, 92, 69},
	89:  {155, 178, 239},
	92:  {204, 142, 104},
	100: {238, 196, 182},
	115: {199, 210, 60},
	134: {174, 122, 89},
	135: {171, 173, 172},
	137: {106, 122, 150},
	142: {220, 188, 129},
	148: {62, 60, 57},
	151: {14, 94, 77},
	179: {160, 160, 160},
	183: {242, 243, 242},
	191: {248, 187, 61},
	212: {159, 195, 233},
	216: {143, 76, 42},
	226: {253, 234, 140},
	232: {125, 187, 221},
	256: {33, 33, 33},
	272: {32, 58, 86},
	273: {13, 105, 171},
	288: {39, 70, 44},
	294: {189, 198, 173},
	297: {170, 127, 46},
	308: {53, 33, 0},
	313: {171, 217, 255},
	320: {123, 46, 47},
	321: {70, 155, 195},
	322: {104, 195, 226},
	323: {211, 242, 234},
	324: {196, 0, 38},
	326: {226, 249, 154},
	330: {119, 119, 78},
	334: {187, 165, 61},
	335: {149, 121, 118},
	366: {209, 131, 4},
	373: {135, 124, 144},
	375: {193, 194, 193},
	378: {120, 144, 129},
	379: {94, 116, 140},
	383: {224, 224, 224},
	406: {0, 29, 104},
	449: {129, 0, 123},
	450: {203, 132, 66},
	462: {226, 155, 63},
	484: {160, 95, 52},
	490: {215, 240, 0},
	493: {101, 103, 97},
	494: {208, 208, 208},
	496: {163, 162, 164},
	503: {199, 193, 183},
	504: {137, 135, 136},
	511: {250, 250, 250},
}
