package fiscal

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/grupovoltera/erp-api/internal/application/dto"
	"github.com/grupovoltera/erp-api/internal/domain"
	"github.com/grupovoltera/erp-api/internal/domain/entity"
	"github.com/grupovoltera/erp-api/internal/domain/repository"
	"github.com/grupovoltera/erp-api/pkg/br"
	"github.com/grupovoltera/erp-api/pkg/logger"
)

// ConfigUseCase gerencia a configuração fiscal do tenant: dados cadastrais,
// credenciais do provedor, certificado A1, toggles de retenção e alíquotas.
type ConfigUseCase struct {
	configRepo repository.FiscalConfigRepository
	provider   FiscalProvider
	certs      CertInspector
	log        *logger.Logger
}

// NewConfigUseCase constrói o caso de uso.
func NewConfigUseCase(
	configRepo repository.FiscalConfigRepository,
	provider FiscalProvider,
	certs CertInspector,
	log *logger.Logger,
) *ConfigUseCase {
	return &ConfigUseCase{
		configRepo: configRepo,
		provider:   provider,
		certs:      certs,
		log:        log,
	}
}

// GetConfig devolve a config do tenant, criando-a com os padrões legais na
// primeira leitura (criação preguiçosa; o registro nunca é removido).
func (uc *ConfigUseCase) GetConfig(ctx context.Context, companyID string) (*dto.FiscalConfigResponse, error) {
	cfg, err := uc.getOrCreate(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return dto.NewFiscalConfigResponse(cfg), nil
}

// UpdateConfig aplica as alterações enviadas e, quando cadastro e credenciais
// estão completos, sincroniza a empresa no provedor.
func (uc *ConfigUseCase) UpdateConfig(ctx context.Context, companyID string, in dto.UpdateFiscalConfigRequest) (*dto.FiscalConfigResponse, error) {
	cfg, err := uc.getOrCreate(ctx, companyID)
	if err != nil {
		return nil, err
	}

	// 1) Validações de formato dos campos cadastrais
	if in.CNPJ != "" {
		if err := br.ValidateCNPJ(in.CNPJ); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
	}
	if in.CEP != "" {
		if err := br.ValidateCEP(in.CEP); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
	}
	if in.RegimeTributario != "" {
		switch in.RegimeTributario {
		case entity.RegimeSimplesNacional, entity.RegimeLucroPresumido, entity.RegimeLucroReal:
		default:
			return nil, fmt.Errorf("%w: regime tributário desconhecido: %s", domain.ErrInvalidInput, in.RegimeTributario)
		}
	}

	// 2) Certificado: valida arquivo e senha antes de aceitar o upload
	if in.CertificadoArquivo != nil && *in.CertificadoArquivo != "" {
		senha := cfg.CertificadoSenha
		if in.CertificadoSenha != nil {
			senha = *in.CertificadoSenha
		}
		info, err := uc.certs.InspectBase64(*in.CertificadoArquivo, senha)
		if err != nil {
			return nil, fmt.Errorf("%w: certificado rejeitado: %v", domain.ErrInvalidInput, err)
		}
		if info.Expirado(time.Now()) {
			return nil, fmt.Errorf("%w: certificado expirado em %s", domain.ErrInvalidInput, info.ValidoAte.Format("02/01/2006"))
		}
		uc.log.Info().
			Str("company_id", companyID).
			Str("titular", info.Titular).
			Time("valido_ate", info.ValidoAte).
			Msg("certificado digital aceito")
	}

	// 3) Troca de secret mantendo o client_id: token cacheado fica inválido
	if in.ProviderClientSecret != nil && cfg.ProviderClientID != "" {
		uc.provider.InvalidarToken(cfg.ProviderClientID)
	}

	uc.applyUpdate(cfg, in)
	cfg.UpdatedAt = time.Now()
	if err := uc.configRepo.Update(ctx, cfg); err != nil {
		return nil, err
	}

	// 4) Sincroniza a empresa no provedor quando há dados suficientes.
	// Falha aqui não desfaz o update local: o tenant corrige e salva de novo.
	if cfg.CredenciaisCompletas() && cfg.CadastroCompleto() {
		if err := uc.provider.SincronizarEmpresa(ctx, cfg); err != nil {
			uc.log.Warn().
				Str("company_id", companyID).
				Err(err).
				Msg("sincronização da empresa no provedor falhou")
			return nil, err
		}
	}

	return dto.NewFiscalConfigResponse(cfg), nil
}

func (uc *ConfigUseCase) getOrCreate(ctx context.Context, companyID string) (*entity.FiscalConfig, error) {
	cfg, err := uc.configRepo.GetByCompanyID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if cfg != nil {
		return cfg, nil
	}

	cfg = entity.NewDefaultFiscalConfig(companyID)
	cfg.ID = uuid.New().String()
	if err := uc.configRepo.Create(ctx, cfg); err != nil {
		return nil, err
	}
	uc.log.Info().Str("company_id", companyID).Msg("config fiscal criada com os padrões")
	return cfg, nil
}

// applyUpdate copia os campos enviados. Strings simples sobrescrevem quando
// não vazias; ponteiros distinguem "não enviado" de "limpar/desligar".
func (uc *ConfigUseCase) applyUpdate(cfg *entity.FiscalConfig, in dto.UpdateFiscalConfigRequest) {
	if in.RazaoSocial != "" {
		cfg.RazaoSocial = in.RazaoSocial
	}
	if in.NomeFantasia != "" {
		cfg.NomeFantasia = in.NomeFantasia
	}
	if in.CNPJ != "" {
		cfg.CNPJ = in.CNPJ
	}
	if in.InscricaoEstadual != "" {
		cfg.InscricaoEstadual = in.InscricaoEstadual
	}
	if in.InscricaoMunicipal != "" {
		cfg.InscricaoMunicipal = in.InscricaoMunicipal
	}
	if in.RegimeTributario != "" {
		cfg.RegimeTributario = in.RegimeTributario
	}
	if in.Logradouro != "" {
		cfg.Logradouro = in.Logradouro
	}
	if in.Numero != "" {
		cfg.Numero = in.Numero
	}
	if in.Bairro != "" {
		cfg.Bairro = in.Bairro
	}
	if in.Municipio != "" {
		cfg.Municipio = in.Municipio
	}
	if in.CodigoMunicipio != "" {
		cfg.CodigoMunicipio = in.CodigoMunicipio
	}
	if in.UF != "" {
		cfg.UF = in.UF
	}
	if in.CEP != "" {
		cfg.CEP = in.CEP
	}

	if in.ProviderClientID != nil {
		cfg.ProviderClientID = *in.ProviderClientID
	}
	if in.ProviderClientSecret != nil {
		cfg.ProviderClientSecret = *in.ProviderClientSecret
	}
	if in.CertificadoArquivo != nil {
		cfg.CertificadoArquivo = *in.CertificadoArquivo
	}
	if in.CertificadoSenha != nil {
		cfg.CertificadoSenha = *in.CertificadoSenha
	}

	if in.EmissaoNfeHabilitada != nil {
		cfg.EmissaoNfeHabilitada = *in.EmissaoNfeHabilitada
	}
	if in.EmissaoNfseHabilitada != nil {
		cfg.EmissaoNfseHabilitada = *in.EmissaoNfseHabilitada
	}

	if in.RetemIss != nil {
		cfg.RetemIss = *in.RetemIss
	}
	if in.AliquotaIss != nil {
		cfg.AliquotaIss = *in.AliquotaIss
	}
	if in.RetemIrrf != nil {
		cfg.RetemIrrf = *in.RetemIrrf
	}
	if in.AliquotaIrpj != nil {
		cfg.AliquotaIrpj = *in.AliquotaIrpj
	}
	if in.RetemCsll != nil {
		cfg.RetemCsll = *in.RetemCsll
	}
	if in.AliquotaCsll != nil {
		cfg.AliquotaCsll = *in.AliquotaCsll
	}
	if in.RetemPis != nil {
		cfg.RetemPis = *in.RetemPis
	}
	if in.AliquotaPis != nil {
		cfg.AliquotaPis = *in.AliquotaPis
	}
	if in.RetemCofins != nil {
		cfg.RetemCofins = *in.RetemCofins
	}
	if in.AliquotaCofins != nil {
		cfg.AliquotaCofins = *in.AliquotaCofins
	}
	if in.RetemInss != nil {
		cfg.RetemInss = *in.RetemInss
	}
	if in.AliquotaInss != nil {
		cfg.AliquotaInss = *in.AliquotaInss
	}

	if in.CNO != nil {
		cfg.CNO = *in.CNO
	}
	if in.RegimeEspecialTributacao != nil {
		cfg.RegimeEspecialTributacao = *in.RegimeEspecialTributacao
	}
}
