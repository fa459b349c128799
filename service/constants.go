package service

const (
	BaseCost = 50_000.0 // unidades de moneda

	TeamExpWeight      = 0.3
	ManagerExpWeight   = 0.2
	LengthWeight       = 0.4
	TransactionsWeight = 0.02
	EntitiesWeight     = 0.03
	PointsAdjustWeight = 0.05

	TeamExpCeiling      = 15.0  // años
	ManagerExpCeiling   = 20.0  // años
	LengthNormalizer    = 12.0  // meses
	TransactionsScale   = 100.0 // transacciones
	EntitiesScale       = 50.0  // entidades
	PointsAdjustScale   = 100.0 // puntos de función
	NoiseLevel          = 0.05  // ±5%
	FallbackLanguageMul = 1.0
)
