package core

// Environment determines runtime mode of the service
type Environment string

const (
	DevelopmentEnv Environment = "development"
	ProductionEnv  Environment = "production"
	TestEnv        Environment = "test"
)

func (e Environment) IsProduction() bool {
	return e == ProductionEnv
}

func (e Environment) IsDevelopment() bool {
	return e == DevelopmentEnv
}

func (e Environment) String() string {
	return string(e)
}
