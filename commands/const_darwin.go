package commands

const (
	_etc = "/usr/local/etc/com.github.learnerhub/learner-sheets"
	_var = "/usr/local/var/com.github.learnerhub/learner-sheets"

	DEFAULT_WORKDIR     = _var
	DEFAULT_CONFIG      = _etc + "/learner-sheets.yaml"
	DEFAULT_CREDENTIALS = _etc + "/.google/credentials.json"
	DEFAULT_EXPORTS     = _var + "/exports"
)
